// Package model defines the savings planner's data types.
package model

import (
	"strings"
	"time"
)

// Wish is one item on the ordered wish list. List order is funding priority.
type Wish struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Target    float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// SavingsConfig holds the user's saving parameters.
type SavingsConfig struct {
	DailySaving    float64 `json:"daily_saving" toml:"daily_saving"`
	CurrentBalance float64 `json:"current_balance" toml:"current_balance"`
}

// SavingsRecord is the persisted unit, one per user key.
// It is always written wholesale.
type SavingsRecord struct {
	UserKey        string    `json:"user_key"`
	Wishes         []Wish    `json:"wishes"`
	CurrentBalance float64   `json:"current_balance"`
	DailySaving    float64   `json:"daily_saving"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewRecord returns an empty record for key seeded with cfg.
func NewRecord(key string, cfg SavingsConfig) SavingsRecord {
	return SavingsRecord{
		UserKey:        key,
		Wishes:         []Wish{},
		CurrentBalance: cfg.CurrentBalance,
		DailySaving:    cfg.DailySaving,
	}
}

// Config returns the record's savings parameters.
func (r SavingsRecord) Config() SavingsConfig {
	return SavingsConfig{
		DailySaving:    r.DailySaving,
		CurrentBalance: r.CurrentBalance,
	}
}

// Clone returns a deep copy so callers never share the wish slice.
func (r SavingsRecord) Clone() SavingsRecord {
	cp := r
	cp.Wishes = make([]Wish, len(r.Wishes))
	copy(cp.Wishes, r.Wishes)
	return cp
}

// TotalTarget sums the targets of all wishes.
func (r SavingsRecord) TotalTarget() float64 {
	var total float64
	for _, w := range r.Wishes {
		total += w.Target
	}
	return total
}

// NormalizeKey trims whitespace from a user key.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// MaskKey hides most of a user key for display and logs.
func MaskKey(key string) string {
	r := []rune(key)
	if len(r) > 8 {
		return string(r[:3]) + "..." + string(r[len(r)-2:])
	}
	if len(r) > 2 {
		return string(r[:1]) + "..."
	}
	return "****"
}
