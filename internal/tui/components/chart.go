package components

import (
	"strings"

	"github.com/theirongolddev/wishjar/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// BarRow is one labelled bar of a horizontal bar chart.
type BarRow struct {
	Label  string
	Value  float64
	Suffix string
	Muted  bool
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// HBarChart renders rows as horizontal bars scaled to the largest value.
// width is the full line width including labels and suffixes.
func HBarChart(rows []BarRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW, suffixW := 0, 0
	peak := 0.0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		suffixW = max(suffixW, lipgloss.Width(r.Suffix))
		peak = max(peak, r.Value)
	}
	labelW = min(labelW, max(width/3, 6))

	barMax := max(width-labelW-suffixW-2, 4)

	bg := lipgloss.NewStyle().Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	mutedBarStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	suffixStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.Value / peak * float64(barMax))
		}
		if n == 0 && r.Value > 0 {
			n = 1
		}
		n = min(max(n, 0), barMax)

		style := barStyle
		glyph := "█"
		if r.Muted {
			style = mutedBarStyle
			glyph = "░"
		}

		label := truncate(r.Label, labelW)
		line := labelStyle.Render(label+strings.Repeat(" ", labelW-lipgloss.Width(label))) +
			bg.Render(" ") +
			style.Render(strings.Repeat(glyph, n)) +
			bg.Render(strings.Repeat(" ", barMax-n)) +
			bg.Render(" ") +
			suffixStyle.Render(r.Suffix)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
