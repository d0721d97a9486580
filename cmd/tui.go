package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/logging"
	"github.com/theirongolddev/wishjar/internal/session"
	"github.com/theirongolddev/wishjar/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Logs go to a file; the alt screen owns the terminal.
	var logOut io.Writer = io.Discard
	if f, err := logging.OpenFile(config.LogPath()); err == nil {
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, logging.FormatText)

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		logger.Warn("store unavailable", "backend", cfg.Storage.Backend, "error", err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	ctrl := session.New(st,
		session.WithDefaults(cfg.Savings()),
		session.WithLogger(logger),
	)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(ctrl, tui.Options{
		Config: cfg,
		Key:    cfg.General.UserKey,
		Logger: logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if ctrl.Dirty() {
		fmt.Println("  Unsaved changes were discarded.")
	}
	return nil
}
