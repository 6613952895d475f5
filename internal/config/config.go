// Package config loads the TOML configuration shared by all commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Import   ImportConfig   `toml:"import"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Port         int      `toml:"port"`
	ReadTimeout  string   `toml:"read_timeout"`  // e.g. "15s"
	WriteTimeout string   `toml:"write_timeout"` // e.g. "60s"
	CORSOrigins  []string `toml:"cors_origins"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	BusyTimeout  string `toml:"busy_timeout"`
	JournalMode  string `toml:"journal_mode"`
	AutoMigrate  bool   `toml:"auto_migrate"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json or console
}

// ImportConfig contains Scryfall import settings.
type ImportConfig struct {
	BaseURL   string  `toml:"base_url"`
	Query     string  `toml:"query"`
	RateLimit float64 `toml:"rate_limit"` // Requests per second
	MaxPages  int     `toml:"max_pages"`
	BatchSize int     `toml:"batch_size"`
	WatchFile string  `toml:"watch_file"` // Bulk JSON file re-imported on change
	Debounce  string  `toml:"debounce"`
}

// AnalysisConfig contains analysis settings.
type AnalysisConfig struct {
	CacheSize int `toml:"cache_size"` // Cached reports; negative disables
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  "15s",
			WriteTimeout: "60s",
			CORSOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		},
		Database: DatabaseConfig{
			Path:         "data/deck-analyzer.db",
			MaxOpenConns: 25,
			BusyTimeout:  "5s",
			JournalMode:  "WAL",
			AutoMigrate:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Import: ImportConfig{
			BaseURL:   "https://api.scryfall.com",
			Query:     "format:standard",
			RateLimit: 10,
			MaxPages:  20,
			BatchSize: 200,
			WatchFile: "",
			Debounce:  "2s",
		},
		Analysis: AnalysisConfig{
			CacheSize: 256,
		},
	}
}

// DefaultPath returns the path of the per-user configuration file.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".deck-analyzer", "config.toml"), nil
}

// Load loads the configuration from path, layered over the defaults. An empty
// path means DefaultPath. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	durations := map[string]string{
		"server read timeout":   c.Server.ReadTimeout,
		"server write timeout":  c.Server.WriteTimeout,
		"database busy timeout": c.Database.BusyTimeout,
		"import debounce":       c.Import.Debounce,
	}
	for name, v := range durations {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("max open connections cannot be negative: %d", c.Database.MaxOpenConns)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if c.Import.RateLimit <= 0 {
		return fmt.Errorf("import rate limit must be positive: %v", c.Import.RateLimit)
	}
	if c.Import.MaxPages < 0 {
		return fmt.Errorf("import max pages cannot be negative: %d", c.Import.MaxPages)
	}
	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import batch size must be positive: %d", c.Import.BatchSize)
	}

	return nil
}

// GetReadTimeout returns the server read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

// GetWriteTimeout returns the server write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

// GetBusyTimeout returns the SQLite busy timeout as a duration.
func (c *Config) GetBusyTimeout() time.Duration {
	return mustDuration(c.Database.BusyTimeout)
}

// GetDebounce returns the watch debounce interval as a duration.
func (c *Config) GetDebounce() time.Duration {
	return mustDuration(c.Import.Debounce)
}

// mustDuration parses a duration already checked by Validate; invalid values
// read as zero.
func mustDuration(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}
