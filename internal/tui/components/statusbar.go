package components

import (
	"strings"

	"github.com/theirongolddev/wishjar/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports about the session.
type Status struct {
	KeyHint string
	Dirty   bool
	Saving  bool
	Message string
	Warn    bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	dirtyStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" [?]help  [^s]save  [q]uit")
	if s.KeyHint != "" {
		left += base.Render("  key ") + keyStyle.Render(s.KeyHint)
	}
	switch {
	case s.Saving:
		left += base.Render("  ") + dirtyStyle.Render("saving…")
	case s.Dirty:
		left += base.Render("  ") + dirtyStyle.Render("● unsaved")
	}

	right := ""
	if s.Message != "" {
		if s.Warn {
			right = warnStyle.Render(s.Message + " ")
		} else {
			right = okStyle.Render(s.Message + " ")
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		// Drop the message before the key bindings.
		right = ""
		padding = max(width-lipgloss.Width(left), 0)
	}

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
