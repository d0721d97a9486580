// Package cmd implements the wishjar CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/logging"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/session"
	"github.com/theirongolddev/wishjar/internal/store"
	"github.com/theirongolddev/wishjar/internal/store/pgstore"
	"github.com/theirongolddev/wishjar/internal/store/redisstore"
	"github.com/theirongolddev/wishjar/internal/store/remotestore"
	"github.com/theirongolddev/wishjar/internal/store/sqlitestore"

	"github.com/spf13/cobra"
)

var (
	flagKey       string
	flagBackend   string
	flagLogLevel  string
	flagVerbose   bool
	flagDebug     bool
	flagOverwrite bool
)

var rootCmd = &cobra.Command{
	Use:          "wishjar",
	Short:        "Savings goal planner",
	Long:         "Plan an ordered wish list against a daily saving rate and see when each wish becomes affordable.",
	SilenceUsage: true,
	RunE:         runList,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagKey, "key", "k", "", "User key (overrides "+config.EnvKey+" and config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite, memory, redis, postgres, remote")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Debug mode for the sync server")
	rootCmd.PersistentFlags().BoolVar(&flagOverwrite, "overwrite", false, "Save even if the stored list could not be read, replacing it")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagKey != "" {
		cfg.General.UserKey = flagKey
	}
	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	return cfg, cfg.Validate()
}

// newLogger builds a logger at the level chosen by --log-level/--verbose.
func newLogger(w io.Writer, format string) *slog.Logger {
	level, err := logging.ParseLevel(flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %v, using warn\n", err)
		level = slog.LevelWarn
	}
	if flagVerbose {
		level = slog.LevelDebug
	}
	return logging.New(w, level, format)
}

// openStore connects the configured backend.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case store.BackendMemory:
		return store.NewMemory(), nil
	case store.BackendSQLite:
		return sqlitestore.Open(cfg.SQLitePath())
	case store.BackendRedis:
		if cfg.Storage.RedisURL == "" {
			return nil, fmt.Errorf("redis backend needs storage.redis_url or %s", config.EnvRedisURL)
		}
		rs, err := redisstore.Open(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		return rs.WithTTL(cfg.RedisTTL()), nil
	case store.BackendPostgres:
		if cfg.Storage.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend needs storage.postgres_dsn or %s", config.EnvPostgresDSN)
		}
		return pgstore.Open(ctx, cfg.Storage.PostgresDSN)
	case store.BackendRemote:
		return remotestore.New(cfg.Storage.RemoteURL, cfg.RemoteTimeout())
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Storage.Backend)
}

// cliSession is the loaded state shared by the one-shot commands.
type cliSession struct {
	cfg   config.Config
	ctrl  *session.Controller
	store store.Store
}

// startSession loads the user's record. A store that cannot be opened or
// read leaves an empty record and a warning on stderr.
func startSession(ctx context.Context) (*cliSession, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(os.Stderr, logging.FormatText)
	slog.SetDefault(logger)

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Warn("store unavailable", "backend", cfg.Storage.Backend, "error", err)
		st = nil
	}

	ctrl := session.New(st,
		session.WithDefaults(cfg.Savings()),
		session.WithLogger(logger),
	)
	sess := &cliSession{cfg: cfg, ctrl: ctrl, store: st}

	if _, err := ctrl.LoadOrCreate(ctx, cfg.General.UserKey); err != nil {
		var warn *session.Warning
		switch {
		case errors.Is(err, model.ErrNoUserKey):
			sess.close()
			return nil, fmt.Errorf("%w: pass --key, set %s, or run `wishjar setup`", err, config.EnvKey)
		case errors.As(err, &warn):
			fmt.Fprintf(os.Stderr, "  %s %v\n", cli.Warn("warning:"), warn.Err)
			fmt.Fprintln(os.Stderr, "  Working on an empty list; saving is refused unless --overwrite replaces the stored list.")
		default:
			sess.close()
			return nil, err
		}
	}
	return sess, nil
}

func (s *cliSession) close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// save persists the active record. --overwrite also replaces a stored
// record that could not be read.
func (s *cliSession) save(ctx context.Context) error {
	save := s.ctrl.Save
	if flagOverwrite {
		save = s.ctrl.Overwrite
	}
	if err := save(ctx); err != nil {
		return fmt.Errorf("saving: %w", err)
	}
	return nil
}

// plan projects the active record. A remote backend projects on the server;
// if that call fails the plan is computed locally.
func (s *cliSession) plan(ctx context.Context, now time.Time) (model.Plan, error) {
	client, ok := s.store.(*remotestore.Client)
	if !ok {
		return s.ctrl.Plan(now)
	}
	rec, err := s.ctrl.Record()
	if err != nil {
		return model.Plan{}, err
	}
	plan, err := client.Plan(ctx, remotestore.PlanRequest{
		Wishes:         rec.Wishes,
		CurrentBalance: rec.CurrentBalance,
		DailySaving:    rec.DailySaving,
		Today:          now.Format("2006-01-02"),
	})
	if err != nil {
		slog.Debug("remote plan failed, projecting locally", "error", err)
		return s.ctrl.Plan(now)
	}
	return *plan, nil
}

func (s *cliSession) currency() string {
	return s.cfg.Appearance.Currency
}
