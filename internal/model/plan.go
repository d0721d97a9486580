package model

import "time"

// MaxPlanDays is the forecast horizon. A wish that would complete later is
// reported as Stalled rather than with a day count.
const MaxPlanDays = 3_650_000

// Projection is the derived, never-persisted view of one wish.
type Projection struct {
	WishID         string    `json:"wish_id"`
	Name           string    `json:"name"`
	Target         float64   `json:"target"`
	AlreadyHave    float64   `json:"already_have"`
	Gap            float64   `json:"gap"`
	Progress       float64   `json:"progress"`
	Days           int       `json:"days"`
	CumulativeDays int       `json:"cumulative_days"`
	CompletionDate time.Time `json:"completion_date"`

	// Stalled is set when a gap remains but the daily rate is zero, or is
	// too small to close the gap within MaxPlanDays. Days reports 0 and the
	// wish is never reached.
	Stalled bool `json:"stalled"`
}

// Funded reports whether the current balance already covers the wish.
func (p Projection) Funded() bool {
	return p.Gap == 0
}

// Plan holds per-wish projections plus aggregate totals.
type Plan struct {
	Projections     []Projection `json:"projections"`
	TotalDays       int          `json:"total_days"`
	TotalGap        float64      `json:"total_gap"`
	TotalTarget     float64      `json:"total_target"`
	StartingBalance float64      `json:"starting_balance"`
	DailyRate       float64      `json:"daily_rate"`
	Today           time.Time    `json:"today"`
	Stalled         bool         `json:"stalled"`
}

// FinishDate is the completion date of the last wish, or Today for an empty plan.
func (p Plan) FinishDate() time.Time {
	if len(p.Projections) == 0 {
		return p.Today
	}
	return p.Projections[len(p.Projections)-1].CompletionDate
}
