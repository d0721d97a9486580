// Package config loads and saves wishjar's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/store"
)

const appName = "wishjar"

// Environment variables that override the config file.
const (
	EnvKey         = "WISHJAR_KEY"
	EnvBackend     = "WISHJAR_BACKEND"
	EnvRedisURL    = "WISHJAR_REDIS_URL"
	EnvPostgresDSN = "WISHJAR_POSTGRES_DSN"
	EnvRemoteURL   = "WISHJAR_REMOTE_URL"
)

// Config holds all wishjar configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds the user key and the savings defaults for new lists.
type GeneralConfig struct {
	UserKey            string  `toml:"user_key,omitempty"`
	DefaultDailySaving float64 `toml:"default_daily_saving"`
	DefaultBalance     float64 `toml:"default_balance"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend          string `toml:"backend"`
	SQLitePath       string `toml:"sqlite_path,omitempty"`
	RedisURL         string `toml:"redis_url,omitempty"`
	RedisTTLSec      int    `toml:"redis_ttl_sec,omitempty"`
	PostgresDSN      string `toml:"postgres_dsn,omitempty"`
	RemoteURL        string `toml:"remote_url,omitempty"`
	RemoteTimeoutSec int    `toml:"remote_timeout_sec,omitempty"`
}

// ServerConfig holds sync server settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme and money display settings.
type AppearanceConfig struct {
	Theme    string `toml:"theme"`
	Currency string `toml:"currency"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDailySaving: 50,
		},
		Storage: StorageConfig{
			Backend:          store.BackendSQLite,
			RemoteTimeoutSec: 10,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8765",
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme:    "flexoki-dark",
			Currency: "¥",
		},
	}
}

// Savings returns the defaults applied to a newly created record.
func (c Config) Savings() model.SavingsConfig {
	return model.SavingsConfig{
		DailySaving:    c.General.DefaultDailySaving,
		CurrentBalance: c.General.DefaultBalance,
	}
}

// RemoteTimeout returns the remote store's request timeout.
func (c Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Storage.RemoteTimeoutSec) * time.Second
}

// RedisTTL returns the expiry set on redis records; zero keeps them forever.
func (c Config) RedisTTL() time.Duration {
	return time.Duration(max(c.Storage.RedisTTLSec, 0)) * time.Second
}

// SQLitePath returns the configured database path or the default one.
func (c Config) SQLitePath() string {
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath
	}
	return DefaultSQLitePath()
}

// Validate checks values that would otherwise fail later in odd places.
func (c Config) Validate() error {
	if err := model.ValidateConfig(c.Savings()); err != nil {
		return fmt.Errorf("general: %w", err)
	}
	for _, b := range store.Backends {
		if c.Storage.Backend == b {
			return nil
		}
	}
	return fmt.Errorf("storage: unknown backend %q (want one of %s)",
		c.Storage.Backend, strings.Join(store.Backends, ", "))
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultSQLitePath returns where the sqlite backend keeps its database.
func DefaultSQLitePath() string {
	return filepath.Join(DataDir(), "wishes.db")
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}

// LogPath returns the TUI's log file.
func LogPath() string {
	return filepath.Join(CacheDir(), "tui.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top, after loading a .env file
// from the working directory when one is present.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	_ = godotenv.Load()
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile reads one config file without applying the environment.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from ConfigPath or a test
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides config values with WISHJAR_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvKey); v != "" {
		c.General.UserKey = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		c.Storage.RemoteURL = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes cfg to path, creating its directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // see LoadFile
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
