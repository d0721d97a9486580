package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagSetDaily   string
	flagSetBalance string
)

var addCmd = &cobra.Command{
	Use:   "add NAME PRICE",
	Short: "Append a wish to the end of the list",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

var rmCmd = &cobra.Command{
	Use:     "rm INDEX",
	Aliases: []string{"remove"},
	Short:   "Remove the wish at INDEX (as shown by list)",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var mvCmd = &cobra.Command{
	Use:     "mv FROM TO",
	Aliases: []string{"move"},
	Short:   "Move a wish to a new position",
	Args:    cobra.ExactArgs(2),
	RunE:    runMove,
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the daily saving or current balance",
	RunE:  runSet,
}

func init() {
	setCmd.Flags().StringVar(&flagSetDaily, "daily", "", "Amount saved per day")
	setCmd.Flags().StringVar(&flagSetBalance, "balance", "", "Money saved so far")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(setCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	price, err := cli.ParsePrice(args[1])
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidWish, err)
	}

	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	w, err := sess.ctrl.AddWish(args[0], price)
	if err != nil {
		return err
	}
	if err := sess.save(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("\n  Added %s for %s\n", w.Name, cli.FormatMoney(w.Target, sess.currency()))
	return printPlan(cmd.Context(), sess)
}

func runRemove(cmd *cobra.Command, args []string) error {
	idx, err := parsePosition(args[0])
	if err != nil {
		return err
	}

	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	rec, err := sess.ctrl.Record()
	if err != nil {
		return err
	}
	if err := sess.ctrl.RemoveWish(idx); err != nil {
		return fmt.Errorf("%w: list has %d wishes", err, len(rec.Wishes))
	}
	if err := sess.save(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("\n  Removed %s\n", rec.Wishes[idx].Name)
	return printPlan(cmd.Context(), sess)
}

func runMove(cmd *cobra.Command, args []string) error {
	from, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	to, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.ctrl.MoveWish(from, to); err != nil {
		return err
	}
	if err := sess.save(cmd.Context()); err != nil {
		return err
	}
	return printPlan(cmd.Context(), sess)
}

func runSet(cmd *cobra.Command, _ []string) error {
	dailyChanged := cmd.Flags().Changed("daily")
	balanceChanged := cmd.Flags().Changed("balance")
	if !dailyChanged && !balanceChanged {
		return fmt.Errorf("nothing to set: pass --daily and/or --balance")
	}

	sess, err := startSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	rec, err := sess.ctrl.Record()
	if err != nil {
		return err
	}
	cfg := rec.Config()
	if dailyChanged {
		if cfg.DailySaving, err = cli.ParseAmount(flagSetDaily); err != nil {
			return fmt.Errorf("%w: daily: %w", model.ErrInvalidConfig, err)
		}
	}
	if balanceChanged {
		if cfg.CurrentBalance, err = cli.ParseAmount(flagSetBalance); err != nil {
			return fmt.Errorf("%w: balance: %w", model.ErrInvalidConfig, err)
		}
	}

	if err := sess.ctrl.SetConfig(cfg); err != nil {
		return err
	}
	if err := sess.save(cmd.Context()); err != nil {
		return err
	}
	return printPlan(cmd.Context(), sess)
}

// parsePosition turns a 1-based list position into an index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a list position", model.ErrIndexOutOfRange, s)
	}
	return n - 1, nil
}
