package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/tui/components"
	"github.com/theirongolddev/wishjar/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldDaily = iota
	settingsFieldBalance
	settingsFieldTheme
	settingsFieldCurrency
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	err     error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30
	return ti
}

func (a App) updateSettingsKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.err = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldDaily:
		ti.Placeholder = "50"
		ti.SetValue(fmt.Sprintf("%.2f", a.rec.DailySaving))
	case settingsFieldBalance:
		ti.Placeholder = "0"
		ti.SetValue(fmt.Sprintf("%.2f", a.rec.CurrentBalance))
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.Width = 60
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "¥"
		ti.SetValue(a.cfg.Appearance.Currency)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.err = a.settingsApply(strings.TrimSpace(a.settings.input.Value()))
		a.settings.editing = a.settings.err != nil
		return a, nil
	case "esc":
		a.settings.editing = false
		a.settings.err = nil
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsApply stores one edited field. Savings parameters go to the
// session and need a save; appearance goes to the config file.
func (a *App) settingsApply(val string) error {
	switch a.settings.cursor {
	case settingsFieldDaily, settingsFieldBalance:
		amount, err := cli.ParseAmount(val)
		if err != nil {
			return err
		}
		cfg := a.rec.Config()
		if a.settings.cursor == settingsFieldDaily {
			cfg.DailySaving = amount
		} else {
			cfg.CurrentBalance = amount
		}
		if err := a.ctrl.SetConfig(cfg); err != nil {
			return err
		}
		a.refresh()
		a.setMessage("settings changed, ^s to save", true)
		return nil

	case settingsFieldTheme:
		if _, ok := theme.Lookup(val); !ok {
			return fmt.Errorf("unknown theme %q", val)
		}
		a.cfg.Appearance.Theme = val
		theme.SetActive(val)

	case settingsFieldCurrency:
		if val == "" {
			return fmt.Errorf("currency symbol cannot be empty")
		}
		a.cfg.Appearance.Currency = val
	}

	if err := a.saveConfig(a.cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	a.setMessage("preferences saved", true)
	return nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	fields := []struct{ label, value string }{
		{"Daily saving", a.money(a.rec.DailySaving)},
		{"Current balance", a.money(a.rec.CurrentBalance)},
		{"Theme", a.cfg.Appearance.Theme},
		{"Currency", a.cfg.Appearance.Currency},
	}

	innerW := components.CardInnerWidth(cw)

	var form strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			form.WriteString(a.settings.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker+label+value); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(labelStyle.Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.err != nil {
		form.WriteString("\n")
		form.WriteString(warnStyle.Render(a.settings.err.Error()))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("User key:     ") + valueStyle.Render(model.MaskKey(a.key)) + "\n")
	info.WriteString(labelStyle.Render("Storage:      ") + valueStyle.Render(a.cfg.Storage.Backend) + "\n")
	if !a.rec.UpdatedAt.IsZero() {
		info.WriteString(labelStyle.Render("Last saved:   ") + valueStyle.Render(a.rec.UpdatedAt.Local().Format("2006-01-02 15:04")) + "\n")
	}
	info.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Session", info.String(), cw))
	return b.String()
}
