package cmd

import (
	"fmt"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cur := cfg.Appearance.Currency

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.UserKey != "" {
		fmt.Printf("    User key:       %s\n", model.MaskKey(cfg.General.UserKey))
	} else {
		fmt.Println("    User key:       not configured")
	}
	fmt.Printf("    Daily saving:   %s\n", cli.FormatMoney(cfg.General.DefaultDailySaving, cur))
	fmt.Printf("    Balance:        %s\n", cli.FormatMoney(cfg.General.DefaultBalance, cur))
	fmt.Println()

	fmt.Println("  [Storage]")
	fmt.Printf("    Backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case store.BackendSQLite:
		fmt.Printf("    Path:    %s\n", cfg.SQLitePath())
	case store.BackendRedis:
		fmt.Printf("    URL:     %s\n", orUnset(cfg.Storage.RedisURL))
	case store.BackendPostgres:
		fmt.Printf("    DSN:     %s\n", orUnset(maskDSN(cfg.Storage.PostgresDSN)))
	case store.BackendRemote:
		fmt.Printf("    URL:     %s\n", orUnset(cfg.Storage.RemoteURL))
		fmt.Printf("    Timeout: %s\n", cfg.RemoteTimeout())
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:    %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Currency: %s\n", cur)
	fmt.Println()

	fmt.Println("  Run `wishjar setup` to reconfigure.")
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "not configured"
	}
	return s
}

// maskDSN hides everything but the start of a connection string, which
// may carry a password.
func maskDSN(dsn string) string {
	if len(dsn) > 12 {
		return dsn[:12] + "..."
	}
	return dsn
}
