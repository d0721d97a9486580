package model

import (
	"fmt"
	"math"
	"strings"
)

// ValidateWish checks the insertion-time preconditions of a wish.
func ValidateWish(name string, target float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidWish)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return fmt.Errorf("%w: price for %q must be positive", ErrInvalidWish, name)
	}
	return nil
}

// ValidateConfig checks that the rate and balance are finite and non-negative.
func ValidateConfig(cfg SavingsConfig) error {
	if !nonNegative(cfg.DailySaving) {
		return fmt.Errorf("%w: daily saving %v", ErrInvalidConfig, cfg.DailySaving)
	}
	if !nonNegative(cfg.CurrentBalance) {
		return fmt.Errorf("%w: current balance %v", ErrInvalidConfig, cfg.CurrentBalance)
	}
	return nil
}

// ValidateRecord checks every wish and the config of a record.
func ValidateRecord(r SavingsRecord) error {
	for _, w := range r.Wishes {
		if err := ValidateWish(w.Name, w.Target); err != nil {
			return err
		}
	}
	return ValidateConfig(r.Config())
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
