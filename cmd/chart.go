package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/pipeline"

	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Days-to-completion bar chart",
	RunE:  runChart,
}

func init() {
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	plan, err := sess.plan(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	if len(plan.Projections) == 0 {
		fmt.Println("\n  No wishes yet.")
		return nil
	}

	series := pipeline.DaysSeries(plan)

	fmt.Println()
	fmt.Println(cli.RenderTitle("DAYS PER WISH"))
	fmt.Println()

	maxDays := 0.0
	labelW := 0
	for i, d := range series.Days {
		maxDays = max(maxDays, d)
		labelW = max(labelW, len([]rune(series.Labels[i])))
	}
	labelW = min(labelW, 20)

	for i, p := range plan.Projections {
		suffix := fmt.Sprintf("%s  %s", cli.FormatDays(p.Days), cli.FormatDate(p.CompletionDate))
		if p.Stalled {
			suffix = "never"
		}
		fmt.Println(cli.RenderHorizontalBar(series.Labels[i], labelW, series.Days[i], maxDays, 40, suffix))
	}

	fmt.Println()
	fmt.Printf("  Cumulative  %s  %s\n",
		cli.RenderSparkline(series.Cumul),
		cli.Muted("finish "+cli.FormatDate(plan.FinishDate())))
	fmt.Println(totalsLine(pipeline.Summarize(plan), sess.currency()))
	fmt.Println()
	return nil
}
