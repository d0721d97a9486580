package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/pipeline"
	"github.com/theirongolddev/wishjar/internal/tui/components"
	"github.com/theirongolddev/wishjar/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderForecastTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if a.planErr != nil {
		warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		return components.ContentCard("Forecast", warn.Render(a.planErr.Error()), cw)
	}

	sum := pipeline.Summarize(a.plan)

	daysNote := "until everything is bought"
	if sum.Stalled > 0 {
		daysNote = fmt.Sprintf("%d wish(es) never reached", sum.Stalled)
	}

	metrics := []components.Metric{
		{Label: "Total days", Value: cli.FormatDays(sum.TotalDays), Note: daysNote},
		{Label: "Still to save", Value: a.money(sum.TotalGap), Note: "of " + a.money(sum.TotalTarget)},
		{Label: "Wishes funded", Value: fmt.Sprintf("%d / %d", sum.Funded, sum.Wishes), Note: cli.FormatPercent(sum.Overall) + " saved"},
		{Label: "Daily saving", Value: a.money(a.rec.DailySaving), Note: "balance " + a.money(a.rec.CurrentBalance)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if sum.Wishes == 0 {
		b.WriteString(components.ContentCard("Days per wish", muted.Render("Add wishes to see a forecast."), cw))
		return b.String()
	}

	series := pipeline.DaysSeries(a.plan)
	rows := make([]components.BarRow, len(a.plan.Projections))
	for i, p := range a.plan.Projections {
		suffix := cli.FormatDays(p.Days)
		if p.Stalled {
			suffix = "never"
		}
		rows[i] = components.BarRow{
			Label:  fmt.Sprintf("%d. %s", i+1, p.Name),
			Value:  series.Days[i],
			Suffix: suffix,
			Muted:  p.Funded(),
		}
	}
	innerW := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard("Days per wish", components.HBarChart(rows, innerW), cw))
	b.WriteString("\n")

	var finish strings.Builder
	finish.WriteString(muted.Render("Cumulative "))
	finish.WriteString(components.Sparkline(series.Cumul, t.Accent))
	finish.WriteString("\n")
	finish.WriteString(a.renderTotalsLine())
	b.WriteString(components.ContentCard("Finish line", finish.String(), cw))

	return b.String()
}
