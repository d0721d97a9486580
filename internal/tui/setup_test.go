package tui

import (
	"testing"

	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/store"
)

func TestSetupValuesApply(t *testing.T) {
	base := config.DefaultConfig()
	vals := SetupValuesFrom(base)
	vals.UserKey = "  alice  "
	vals.DailySaving = "¥1,250.50"
	vals.Balance = "300"
	vals.Backend = store.BackendRedis
	vals.Theme = "tokyo-night"

	cfg, err := vals.Apply(base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.General.UserKey != "alice" {
		t.Fatalf("UserKey = %q, want alice", cfg.General.UserKey)
	}
	if cfg.General.DefaultDailySaving != 1250.5 || cfg.General.DefaultBalance != 300 {
		t.Fatalf("savings = %v/%v, want 1250.5/300", cfg.General.DefaultDailySaving, cfg.General.DefaultBalance)
	}
	if cfg.Storage.Backend != store.BackendRedis || cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("backend/theme = %s/%s", cfg.Storage.Backend, cfg.Appearance.Theme)
	}
	if cfg.Appearance.Currency != base.Appearance.Currency {
		t.Fatalf("Currency = %q, want unchanged %q", cfg.Appearance.Currency, base.Appearance.Currency)
	}
}

func TestSetupValuesApplyRejectsBadAmounts(t *testing.T) {
	base := config.DefaultConfig()

	vals := SetupValuesFrom(base)
	vals.DailySaving = "-5"
	if _, err := vals.Apply(base); err == nil {
		t.Fatal("negative daily saving accepted")
	}

	vals = SetupValuesFrom(base)
	vals.Balance = "lots"
	if _, err := vals.Apply(base); err == nil {
		t.Fatal("non-numeric balance accepted")
	}

	vals = SetupValuesFrom(base)
	vals.Backend = "floppy"
	if _, err := vals.Apply(base); err == nil {
		t.Fatal("unknown backend accepted")
	}
}
