package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/pipeline"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the wish list with completion forecasts",
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	return printPlan(cmd.Context(), sess)
}

// printPlan renders the forecast table for the active record.
func printPlan(ctx context.Context, sess *cliSession) error {
	rec, err := sess.ctrl.Record()
	if err != nil {
		return err
	}
	plan, err := sess.plan(ctx, time.Now())
	if err != nil {
		return err
	}
	cur := sess.currency()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WISHJAR  %s/day  balance %s",
		cli.FormatMoney(rec.DailySaving, cur),
		cli.FormatMoney(rec.CurrentBalance, cur))))
	fmt.Println()

	if len(plan.Projections) == 0 {
		fmt.Println("  No wishes yet.")
		fmt.Println("  Add one with `wishjar add NAME PRICE`.")
		fmt.Println()
		return nil
	}

	rows := make([][]string, 0, len(plan.Projections))
	for i, p := range plan.Projections {
		days := cli.FormatDays(p.Days)
		total := cli.FormatDays(p.CumulativeDays)
		date := cli.FormatDate(p.CompletionDate)
		if p.Stalled {
			days, total, date = "never", "-", "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			cli.Truncate(p.Name, 28),
			cli.FormatMoney(p.Target, cur),
			cli.RenderProgressBar(p.Progress, 10) + " " + cli.FormatPercent(p.Progress),
			days,
			total,
			date,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "Wish", "Target", "Saved", "Days", "Total", "Ready on"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println(totalsLine(pipeline.Summarize(plan), cur))
	if plan.Stalled {
		fmt.Println("  " + cli.Warn(cli.StalledNote(plan.DailyRate)))
	}
	fmt.Println()
	return nil
}

func totalsLine(sum pipeline.Summary, cur string) string {
	return fmt.Sprintf("  %s to go  %s  gap %s  %s",
		cli.FormatDays(sum.TotalDays),
		cli.Muted("·"),
		cli.Money(cli.FormatMoney(sum.TotalGap, cur)),
		cli.Muted(fmt.Sprintf("(%d of %d funded)", sum.Funded, sum.Wishes)))
}
