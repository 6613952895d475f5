// Command deckanalyzer serves the card catalog and deck analysis API and
// manages the catalog database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/deck-analyzer/internal/config"
	"github.com/ramonehamilton/deck-analyzer/internal/logging"
	"github.com/ramonehamilton/deck-analyzer/internal/storage"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "deckanalyzer",
		Short: "Card catalog and deck analysis service",
		Long: `deckanalyzer stores a Magic: The Gathering card catalog imported from Scryfall,
manages deck lists and analyzes them for curve, colors, synergies and matchups.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.deck-analyzer/config.toml)")
	flags.StringVar(&a.dbPath, "db", "", "database path (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json or console")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// init loads the configuration, applies flag overrides and builds the logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// openDB opens the configured database, applying migrations when enabled.
func (a *app) openDB() (*storage.DB, error) {
	dbCfg := storage.DefaultConfig(a.cfg.Database.Path)
	if a.cfg.Database.MaxOpenConns > 0 {
		dbCfg.MaxOpenConns = a.cfg.Database.MaxOpenConns
	}
	dbCfg.BusyTimeout = a.cfg.GetBusyTimeout()
	dbCfg.JournalMode = a.cfg.Database.JournalMode
	dbCfg.AutoMigrate = a.cfg.Database.AutoMigrate

	db, err := storage.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a.logger.Debug("database opened", zap.String("path", dbCfg.Path), zap.Bool("autoMigrate", dbCfg.AutoMigrate))
	return db, nil
}
