package components

import (
	"fmt"

	"github.com/theirongolddev/wishjar/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForProgress returns red for little saved, through yellow, to green
// once a wish is fully funded.
func ColorForProgress(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Green
	case pct >= 0.5:
		return t.Yellow
	case pct > 0:
		return t.Orange
	default:
		return t.TextDim
	}
}

// ProgressBar renders a wish's funded fraction as a bar plus percentage.
// width is the bar width, not counting the percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = min(max(pct, 0), 1)
	width = max(width, 4)

	color := ColorForProgress(pct)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

// ProgressBarWidth is the rendered width of ProgressBar(_, width).
func ProgressBarWidth(width int) int {
	return max(width, 4) + 5
}
