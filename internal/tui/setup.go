package tui

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"
	"github.com/theirongolddev/wishjar/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues backs the first-run wizard's fields.
type SetupValues struct {
	UserKey     string
	DailySaving string
	Balance     string
	Backend     string
	Theme       string
	Currency    string
}

// SetupValuesFrom seeds the wizard with an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		UserKey:     cfg.General.UserKey,
		DailySaving: fmt.Sprintf("%.2f", cfg.General.DefaultDailySaving),
		Balance:     fmt.Sprintf("%.2f", cfg.General.DefaultBalance),
		Backend:     cfg.Storage.Backend,
		Theme:       cfg.Appearance.Theme,
		Currency:    cfg.Appearance.Currency,
	}
}

// Apply writes the wizard's answers into cfg.
func (v SetupValues) Apply(cfg config.Config) (config.Config, error) {
	daily, err := cli.ParseAmount(v.DailySaving)
	if err != nil {
		return cfg, fmt.Errorf("daily saving: %w", err)
	}
	balance, err := cli.ParseAmount(v.Balance)
	if err != nil {
		return cfg, fmt.Errorf("balance: %w", err)
	}

	cfg.General.UserKey = model.NormalizeKey(v.UserKey)
	cfg.General.DefaultDailySaving = daily
	cfg.General.DefaultBalance = balance
	if v.Backend != "" {
		cfg.Storage.Backend = v.Backend
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if v.Currency != "" {
		cfg.Appearance.Currency = v.Currency
	}
	return cfg, cfg.Validate()
}

// NewSetupForm builds the wizard run by `wishjar setup`.
func NewSetupForm(vals *SetupValues) *huh.Form {
	amount := func(s string) error {
		_, err := cli.ParseAmount(s)
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to wishjar").
				Description("A few questions, then you're saving."),
			huh.NewInput().
				Title("User key").
				Description("Leave empty to be asked each time.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.UserKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Daily saving for new lists").
				Value(&vals.DailySaving).
				Validate(amount),
			huh.NewInput().
				Title("Starting balance for new lists").
				Value(&vals.Balance).
				Validate(amount),
			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.Currency).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("currency symbol cannot be empty")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should wishes be stored?").
				Options(huh.NewOptions(store.Backends...)...).
				Value(&vals.Backend),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
		),
	)
}
