package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/deck-analyzer/internal/scryfall"
	"github.com/ramonehamilton/deck-analyzer/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		file     string
		watch    bool
		query    string
		maxPages int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cards into the catalog",
		Long: `Import cards from the Scryfall search API, or from a Scryfall bulk data file
with --file. With --watch the file is re-imported whenever it changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query != "" {
				a.cfg.Import.Query = query
			}
			if cmd.Flags().Changed("max-pages") {
				a.cfg.Import.MaxPages = maxPages
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			store := storage.NewService(db)
			return a.runImport(ctx, cmd, store, file, watch)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Scryfall bulk JSON file (.json or .json.gz)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-import --file whenever it changes")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Scryfall search query (overrides config)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "maximum search pages to fetch, 0 for all")

	return cmd
}

func (a *app) runImport(ctx context.Context, cmd *cobra.Command, store *storage.Service, file string, watch bool) error {
	if watch && file == "" {
		file = a.cfg.Import.WatchFile
	}

	var importer *scryfall.Importer
	var stats *scryfall.ImportStats
	var err error

	if file == "" {
		client := scryfall.NewClient(scryfall.ClientOptions{
			BaseURL:   a.cfg.Import.BaseURL,
			RateLimit: a.cfg.Import.RateLimit,
		})
		importer = scryfall.NewImporter(client, store, a.importOptions(), a.logger, nil)
		stats, err = importer.Sync(ctx)
	} else {
		importer = scryfall.NewImporter(nil, store, a.importOptions(), a.logger, nil)
		stats, err = importer.ImportFile(ctx, file)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return err
	}

	if !watch {
		return nil
	}
	if file == "" {
		a.logger.Warn("--watch requires --file or [import] watch_file")
		return nil
	}

	return importer.Watch(ctx, file, a.cfg.GetDebounce())
}
