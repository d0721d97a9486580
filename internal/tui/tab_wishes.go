package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/tui/components"
	"github.com/theirongolddev/wishjar/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateWishesKeys handles the Wishes tab bindings. ok is false for keys
// the tab does not own.
func (a App) updateWishesKeys(key string) (tea.Model, tea.Cmd, bool) {
	n := len(a.rec.Wishes)

	switch key {
	case "j", "down":
		if a.cursor < n-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "G", "end":
		a.cursor = max(n-1, 0)
	case "a", "n":
		m, cmd := a.openAddForm()
		return m, cmd, true
	case "d", "x", "delete":
		w, ok := a.selectedWish()
		if !ok {
			return a, nil, true
		}
		if err := a.ctrl.RemoveWishByID(w.ID); err != nil {
			a.setMessage(err.Error(), false)
		} else {
			a.setMessage("removed "+w.Name, true)
		}
		a.refresh()
	case "J", "shift+down":
		if a.cursor < n-1 {
			if err := a.ctrl.MoveWish(a.cursor, a.cursor+1); err == nil {
				a.cursor++
			}
			a.refresh()
		}
	case "K", "shift+up":
		if a.cursor > 0 {
			if err := a.ctrl.MoveWish(a.cursor, a.cursor-1); err == nil {
				a.cursor--
			}
			a.refresh()
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) renderWishesTab(cw, height int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	if len(a.rec.Wishes) == 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
		body := muted.Render("No wishes yet. Press a to add one.")
		return components.ContentCard("Wishes", body, cw)
	}

	if a.planErr != nil {
		warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		return components.ContentCard("Wishes", warn.Render(a.planErr.Error()), cw)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	stalledStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	// Fixed columns: marker 2, # 4, target 14, progress bar, days 10, date 11.
	const (
		numW    = 4
		targetW = 14
		daysW   = 11
		dateW   = 11
	)
	barW := 12
	nameW := innerW - 2 - numW - targetW - components.ProgressBarWidth(barW) - daysW - dateW - 5
	if nameW < 10 {
		barW = 6
		nameW = max(innerW-2-numW-targetW-components.ProgressBarWidth(barW)-daysW-dateW-5, 6)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %-*s %*s %-*s %*s %*s",
		numW, "#",
		nameW, "Wish",
		targetW, "Target",
		components.ProgressBarWidth(barW), "Saved",
		daysW, "Days",
		dateW, "Ready on")))
	b.WriteString("\n")

	// Keep the cursor visible when the list is taller than the card.
	visible := max(height-6, 1)
	offset := 0
	if a.cursor >= visible {
		offset = a.cursor - visible + 1
	}
	end := min(offset+visible, len(a.plan.Projections))

	for i := offset; i < end; i++ {
		p := a.plan.Projections[i]
		days := cli.FormatDays(p.Days)
		date := cli.FormatDate(p.CompletionDate)
		if p.Stalled {
			days = "never"
			date = "—"
		}

		name := truncStr(p.Name, nameW)
		left := fmt.Sprintf("%-*d %-*s %*s ",
			numW, i+1,
			nameW, name,
			targetW, a.money(p.Target))
		right := fmt.Sprintf(" %*s %*s", daysW, days, dateW, date)

		if i == a.cursor {
			b.WriteString(markerStyle.Render("▸ "))
			b.WriteString(selStyle.Render(left))
		} else {
			b.WriteString(rowStyle.Render("  "))
			b.WriteString(rowStyle.Render(left))
		}
		b.WriteString(components.ProgressBar(p.Progress, barW))
		if i == a.cursor {
			b.WriteString(selStyle.Render(right))
		} else if p.Stalled {
			b.WriteString(stalledStyle.Render(right))
		} else {
			b.WriteString(rowStyle.Render(right))
		}
		b.WriteString("\n")
	}
	if end < len(a.plan.Projections) {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  … %d more", len(a.plan.Projections)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.renderTotalsLine())
	if a.plan.Stalled {
		b.WriteString("\n")
		b.WriteString(stalledStyle.Render(cli.StalledNote(a.plan.DailyRate)))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[a]dd  [d]elete  [J/K] reorder  [^s] save"))

	return components.ContentCard(fmt.Sprintf("Wishes (%d)", len(a.rec.Wishes)), b.String(), cw)
}

func (a App) renderTotalsLine() string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	money := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)

	return label.Render("All wishes in ") +
		value.Render(cli.FormatDays(a.plan.TotalDays)) +
		label.Render(" · still to save ") +
		money.Render(a.money(a.plan.TotalGap)) +
		label.Render(" · done by ") +
		value.Render(cli.FormatDate(a.plan.FinishDate()))
}

// selectedWish returns the wish under the cursor.
func (a App) selectedWish() (model.Wish, bool) {
	if a.cursor < 0 || a.cursor >= len(a.rec.Wishes) {
		return model.Wish{}, false
	}
	return a.rec.Wishes[a.cursor], true
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
