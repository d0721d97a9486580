package pipeline

import "github.com/theirongolddev/wishjar/internal/model"

// Series holds chart-ready per-wish values in list order.
type Series struct {
	Labels []string
	Days   []float64
	Cumul  []float64
}

// Summary condenses a plan for metric cards and totals lines.
type Summary struct {
	Wishes      int
	Funded      int
	Stalled     int
	TotalDays   int
	TotalGap    float64
	TotalTarget float64
	Saved       float64 // balance actually allocated across wishes
	Overall     float64 // Saved / TotalTarget
}

// Summarize aggregates a plan.
func Summarize(plan model.Plan) Summary {
	s := Summary{
		Wishes:      len(plan.Projections),
		TotalDays:   plan.TotalDays,
		TotalGap:    plan.TotalGap,
		TotalTarget: plan.TotalTarget,
	}
	for _, p := range plan.Projections {
		if p.Funded() {
			s.Funded++
		}
		if p.Stalled {
			s.Stalled++
		}
		s.Saved += p.AlreadyHave
	}
	if s.TotalTarget > 0 {
		s.Overall = s.Saved / s.TotalTarget
	}
	return s
}

// DaysSeries extracts per-wish day counts for the days-to-completion chart.
func DaysSeries(plan model.Plan) Series {
	n := len(plan.Projections)
	s := Series{
		Labels: make([]string, n),
		Days:   make([]float64, n),
		Cumul:  make([]float64, n),
	}
	for i, p := range plan.Projections {
		s.Labels[i] = p.Name
		s.Days[i] = float64(p.Days)
		s.Cumul[i] = float64(p.CumulativeDays)
	}
	return s
}
