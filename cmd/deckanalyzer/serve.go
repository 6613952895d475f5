package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/deck-analyzer/internal/api"
	"github.com/ramonehamilton/deck-analyzer/internal/decks"
	"github.com/ramonehamilton/deck-analyzer/internal/events"
	"github.com/ramonehamilton/deck-analyzer/internal/metrics"
	"github.com/ramonehamilton/deck-analyzer/internal/scryfall"
	"github.com/ramonehamilton/deck-analyzer/internal/storage"
	"github.com/ramonehamilton/deck-analyzer/internal/synergy"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port      int
		watchFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Open the database, seed the built-in synergy patterns and serve the catalog
and deck API until interrupted. With --watch, a Scryfall bulk data file is
re-imported whenever it changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if watchFile != "" {
				a.cfg.Import.WatchFile = watchFile
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "API server port (overrides config)")
	cmd.Flags().StringVar(&watchFile, "watch", "", "Scryfall bulk JSON file to re-import on change")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			a.logger.Error("failed to close database", zap.Error(err))
		}
	}()

	store := storage.NewService(db)
	m := metrics.New()
	dispatcher := events.NewDispatcher(a.logger)
	dispatcher.Register(events.NewLoggingObserver(a.logger.Named("events")))

	registry, err := seedRegistry(ctx, store, a.logger)
	if err != nil {
		return err
	}

	deckService, err := decks.NewService(decks.Config{
		Store:     store,
		Catalog:   store.Cards(),
		Registry:  registry,
		Logger:    a.logger,
		Metrics:   m,
		Events:    dispatcher,
		CacheSize: a.cfg.Analysis.CacheSize,
	})
	if err != nil {
		return err
	}
	dispatcher.Register(deckService)

	server := api.NewServer(&api.Config{
		Port:           a.cfg.Server.Port,
		ReadTimeout:    a.cfg.GetReadTimeout(),
		WriteTimeout:   a.cfg.GetWriteTimeout(),
		RequestTimeout: a.cfg.GetWriteTimeout(),
		CORSOrigins:    a.cfg.Server.CORSOrigins,
	}, api.Deps{
		Decks:   deckService,
		Catalog: store.Cards(),
		Logger:  a.logger,
		Metrics: m,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(ctx)
	})

	if path := a.cfg.Import.WatchFile; path != "" {
		importer := scryfall.NewImporter(nil, store, a.importOptions(), a.logger, m).WithEvents(dispatcher)
		g.Go(func() error {
			if _, err := importer.ImportFile(ctx, path); err != nil {
				a.logger.Warn("initial bulk import failed", zap.String("path", path), zap.Error(err))
			}
			return importer.Watch(ctx, path, a.cfg.GetDebounce())
		})
	}

	a.logger.Info("deck analyzer started",
		zap.Int("port", a.cfg.Server.Port),
		zap.Int("patterns", registry.Len()),
		zap.String("watch", a.cfg.Import.WatchFile),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	a.logger.Info("deck analyzer stopped")
	return nil
}

// seedRegistry stores the built-in synergy patterns and loads the registry
// from the database.
func seedRegistry(ctx context.Context, store *storage.Service, logger *zap.Logger) (*synergy.Registry, error) {
	defaults, err := synergy.Defaults()
	if err != nil {
		return nil, err
	}

	inserted, err := store.SeedPatterns(ctx, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to seed synergy patterns: %w", err)
	}
	if inserted > 0 {
		logger.Info("seeded synergy patterns", zap.Int("inserted", inserted))
	}

	return synergy.Load(ctx, store.Patterns())
}

func (a *app) importOptions() scryfall.ImportOptions {
	return scryfall.ImportOptions{
		Query:     a.cfg.Import.Query,
		MaxPages:  a.cfg.Import.MaxPages,
		BatchSize: a.cfg.Import.BatchSize,
	}
}
