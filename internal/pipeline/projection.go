// Package pipeline turns a wish list and savings parameters into projections.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/wishjar/internal/model"
)

// Project funds wishes strictly in list order from one shared balance and
// returns a projection per wish plus aggregate totals.
//
// Each wish takes min(remaining, target) from the balance as progress; the
// rest is saved at dailyRate per whole day. After a wish is considered, its
// full target is consumed from the remaining balance, so later wishes only
// see what is left over once earlier targets are met.
//
// A dailyRate of zero reports 0 days for any gap and marks the projection
// Stalled, as does a wish that would finish past model.MaxPlanDays. today
// is truncated to a calendar date.
func Project(wishes []model.Wish, startingBalance, dailyRate float64, today time.Time) (model.Plan, error) {
	if err := model.ValidateConfig(model.SavingsConfig{
		DailySaving:    dailyRate,
		CurrentBalance: startingBalance,
	}); err != nil {
		return model.Plan{}, err
	}

	today = Day(today)
	plan := model.Plan{
		Projections:     make([]model.Projection, 0, len(wishes)),
		StartingBalance: startingBalance,
		DailyRate:       dailyRate,
		Today:           today,
	}

	remaining := startingBalance
	cumulative := 0

	for i, w := range wishes {
		if err := model.ValidateWish(w.Name, w.Target); err != nil {
			return model.Plan{}, fmt.Errorf("wish %d: %w", i+1, err)
		}

		alreadyHave := math.Min(remaining, w.Target)
		gap := math.Max(0, w.Target-alreadyHave)

		days := 0
		stalled := false
		if gap > 0 {
			// Compare in float space: the quotient may not fit in an int.
			need := math.Floor(gap / dailyRate)
			if dailyRate <= 0 || need > float64(model.MaxPlanDays-cumulative) {
				stalled = true
			} else {
				days = int(need)
			}
		}

		plan.Projections = append(plan.Projections, model.Projection{
			WishID:         w.ID,
			Name:           w.Name,
			Target:         w.Target,
			AlreadyHave:    alreadyHave,
			Gap:            gap,
			Progress:       alreadyHave / w.Target,
			Days:           days,
			CumulativeDays: cumulative + days,
			CompletionDate: today.AddDate(0, 0, cumulative+days),
			Stalled:        stalled,
		})

		remaining = math.Max(0, remaining-w.Target)
		cumulative += days
		plan.TotalTarget += w.Target
		plan.Stalled = plan.Stalled || stalled
	}

	plan.TotalDays = cumulative
	plan.TotalGap = math.Max(0, plan.TotalTarget-startingBalance)

	return plan, nil
}

// ProjectRecord runs Project over a persisted record.
func ProjectRecord(rec model.SavingsRecord, today time.Time) (model.Plan, error) {
	return Project(rec.Wishes, rec.CurrentBalance, rec.DailySaving, today)
}

// Day truncates t to local midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
