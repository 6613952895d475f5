package scryfall

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ramonehamilton/deck-analyzer/internal/events"
	"github.com/ramonehamilton/deck-analyzer/internal/logging"
	"github.com/ramonehamilton/deck-analyzer/internal/metrics"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// CardWriter persists a batch of catalog cards, replacing existing cards with
// the same id.
type CardWriter interface {
	UpsertCards(ctx context.Context, cards []*models.Card) (int, error)
}

// Searcher pages through Scryfall search results.
type Searcher interface {
	SearchAll(ctx context.Context, query string, maxPages int, fn func([]Card) error) (int, error)
}

// ImportOptions configures the import process.
type ImportOptions struct {
	// Query is the Scryfall search used by Sync.
	Query string

	// MaxPages bounds the number of search pages read by Sync; zero reads all.
	MaxPages int

	// BatchSize is the number of cards to upsert per transaction.
	BatchSize int
}

// DefaultImportOptions returns sensible default options.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		Query:     "format:standard",
		MaxPages:  50,
		BatchSize: 200,
	}
}

// ImportStats contains statistics about the import process.
type ImportStats struct {
	Source        string        `json:"source"`
	Pages         int           `json:"pages,omitempty"`
	TotalCards    int           `json:"total_cards"`
	ImportedCards int           `json:"imported_cards"`
	SkippedCards  int           `json:"skipped_cards"`
	Duration      time.Duration `json:"duration"`
}

// Importer loads cards into the catalog.
type Importer struct {
	client  Searcher
	writer  CardWriter
	options ImportOptions
	logger  *zap.Logger
	metrics *metrics.Metrics
	events  *events.Dispatcher
}

// NewImporter creates a new importer. client may be nil when only files are
// imported.
func NewImporter(client Searcher, writer CardWriter, options ImportOptions, logger *zap.Logger, m *metrics.Metrics) *Importer {
	if options.BatchSize <= 0 {
		options.BatchSize = DefaultImportOptions().BatchSize
	}
	if options.Query == "" {
		options.Query = DefaultImportOptions().Query
	}

	return &Importer{
		client:  client,
		writer:  writer,
		options: options,
		logger:  logging.OrNop(logger).Named("import"),
		metrics: m,
	}
}

// WithEvents makes the importer publish a cards:imported event after each
// successful import.
func (imp *Importer) WithEvents(d *events.Dispatcher) *Importer {
	imp.events = d
	return imp
}

// Sync imports every card matched by the configured search.
func (imp *Importer) Sync(ctx context.Context) (*ImportStats, error) {
	if imp.client == nil {
		return nil, fmt.Errorf("no Scryfall client configured")
	}

	start := time.Now()
	stats := &ImportStats{Source: "search:" + imp.options.Query}
	b := imp.newBatcher(stats)

	imp.logger.Info("starting Scryfall sync", zap.String("query", imp.options.Query), zap.Int("maxPages", imp.options.MaxPages))

	pages, err := imp.client.SearchAll(ctx, imp.options.Query, imp.options.MaxPages, func(cards []Card) error {
		for i := range cards {
			if err := b.add(ctx, &cards[i]); err != nil {
				return err
			}
		}
		imp.logger.Debug("fetched page", zap.Int("cards", len(cards)), zap.Int("imported", stats.ImportedCards))
		return nil
	})
	stats.Pages = pages
	if err != nil {
		return stats, fmt.Errorf("failed to sync cards: %w", err)
	}
	if err := b.flush(ctx); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	imp.finish(ctx, stats)
	return stats, nil
}

// ImportFile imports a Scryfall bulk data file: a JSON array of card objects,
// optionally gzip-compressed when the name ends in ".gz".
func (imp *Importer) ImportFile(ctx context.Context, path string) (*ImportStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	stats, err := imp.ImportReader(ctx, r)
	if stats != nil {
		stats.Source = "file:" + path
	}
	if err != nil {
		return stats, fmt.Errorf("failed to import %s: %w", path, err)
	}

	imp.finish(ctx, stats)
	return stats, nil
}

// ImportReader streams a JSON array of card objects from r.
func (imp *Importer) ImportReader(ctx context.Context, r io.Reader) (*ImportStats, error) {
	start := time.Now()
	stats := &ImportStats{Source: "reader"}
	b := imp.newBatcher(stats)

	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return stats, fmt.Errorf("failed to read bulk data: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return stats, fmt.Errorf("bulk data must be a JSON array")
	}

	for dec.More() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var card Card
		if err := dec.Decode(&card); err != nil {
			return stats, fmt.Errorf("failed to parse card %d: %w", stats.TotalCards+1, err)
		}
		if err := b.add(ctx, &card); err != nil {
			return stats, err
		}
	}

	if _, err := dec.Token(); err != nil {
		return stats, fmt.Errorf("failed to read bulk data: %w", err)
	}
	if err := b.flush(ctx); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (imp *Importer) finish(ctx context.Context, stats *ImportStats) {
	imp.events.Dispatch(events.NewTypedEvent(ctx, events.CardsImported, events.CardsImportedEvent{
		Source:   stats.Source,
		Imported: stats.ImportedCards,
		Skipped:  stats.SkippedCards,
	}))

	imp.logger.Info("import complete",
		zap.String("source", stats.Source),
		zap.Int("total", stats.TotalCards),
		zap.Int("imported", stats.ImportedCards),
		zap.Int("skipped", stats.SkippedCards),
		zap.Duration("duration", stats.Duration),
	)
}

// batcher accumulates importable cards and writes them in batches.
type batcher struct {
	imp   *Importer
	stats *ImportStats
	batch []*models.Card
}

func (imp *Importer) newBatcher(stats *ImportStats) *batcher {
	return &batcher{
		imp:   imp,
		stats: stats,
		batch: make([]*models.Card, 0, imp.options.BatchSize),
	}
}

func (b *batcher) add(ctx context.Context, card *Card) error {
	b.stats.TotalCards++
	if !ShouldImport(card) {
		b.stats.SkippedCards++
		return nil
	}

	b.batch = append(b.batch, ToModel(card))
	if len(b.batch) >= b.imp.options.BatchSize {
		return b.flush(ctx)
	}
	return nil
}

func (b *batcher) flush(ctx context.Context) error {
	if len(b.batch) == 0 {
		return nil
	}

	n, err := b.imp.writer.UpsertCards(ctx, b.batch)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	b.stats.ImportedCards += n
	b.imp.metrics.CardsImported(n)
	b.batch = b.batch[:0]
	return nil
}
