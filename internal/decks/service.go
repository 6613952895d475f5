// Package decks manages deck lists and runs the analysis pipeline over them.
package decks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/ramonehamilton/deck-analyzer/internal/analysis"
	"github.com/ramonehamilton/deck-analyzer/internal/events"
	"github.com/ramonehamilton/deck-analyzer/internal/metrics"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
	"github.com/ramonehamilton/deck-analyzer/internal/synergy"
)

const defaultCacheSize = 256

// Store persists decks.
type Store interface {
	CreateDeck(ctx context.Context, deck *models.Deck) error
	UpdateDeck(ctx context.Context, deck *models.Deck, replaceCards bool) error
	GetDeck(ctx context.Context, id string) (*models.Deck, error)
	ListDecks(ctx context.Context, format string, limit, offset int) (int, []*models.DeckSummary, error)
	DeleteDeck(ctx context.Context, id string) error
}

// Catalog is the part of the card catalog used to resolve deck entries.
type Catalog interface {
	GetManyByName(ctx context.Context, names []string) ([]*models.Card, error)
	Names(ctx context.Context) ([]string, error)
	Revision(ctx context.Context) (string, error)
}

// Config holds the dependencies of a Service.
type Config struct {
	Store    Store
	Catalog  Catalog
	Registry *synergy.Registry
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	// Events receives deck:created, deck:updated and deck:deleted events.
	// Optional.
	Events *events.Dispatcher

	// CacheSize bounds the number of cached reports. Zero uses the default;
	// a negative value disables caching.
	CacheSize int
}

// Service validates deck writes, resolves entries against the catalog and
// produces analysis reports.
type Service struct {
	store    Store
	catalog  Catalog
	registry *synergy.Registry
	logger   *zap.Logger
	metrics  *metrics.Metrics
	events   *events.Dispatcher
	cache    *lru.Cache
	newID    func() string
}

// NewService creates a deck service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("deck store is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("card catalog is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := cfg.Registry
	if registry == nil {
		registry = synergy.NewRegistry(nil)
	}

	s := &Service{
		store:    cfg.Store,
		catalog:  cfg.Catalog,
		registry: registry,
		logger:   logger,
		metrics:  cfg.Metrics,
		events:   cfg.Events,
		newID:    uuid.NewString,
	}

	size := cfg.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New(size)
		if err != nil {
			return nil, fmt.Errorf("failed to create report cache: %w", err)
		}
		s.cache = cache
	}

	return s, nil
}

// Create validates and stores a new deck.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Deck, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	main, side, err := in.entries()
	if err != nil {
		return nil, err
	}

	deck := &models.Deck{
		ID:          s.newID(),
		Name:        name,
		Format:      normalizeFormat(in.Format),
		Description: normalizeDescription(in.Description),
		Tags:        normalizeTags(in.Tags),
		Cards:       main,
		Sideboard:   side,
	}

	resolved, err := s.Resolve(ctx, deck)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deck cards: %w", err)
	}
	deck.ColorIdentity = resolved.ColorIdentity

	if err := s.store.CreateDeck(ctx, deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	s.logger.Info("deck created",
		zap.String("deckID", deck.ID),
		zap.String("format", deck.Format),
		zap.Int("entries", len(main)+len(side)),
		zap.Int("unresolved", len(resolved.Unresolved)),
	)
	s.publish(ctx, events.DeckCreated, deck.ID, deck.Format)

	return s.store.GetDeck(ctx, deck.ID)
}

// Get returns a deck with its entries.
func (s *Service) Get(ctx context.Context, id string) (*models.Deck, error) {
	return s.store.GetDeck(ctx, id)
}

// List returns one page of deck summaries, most recently updated first.
func (s *Service) List(ctx context.Context, format string, limit, offset int) (int, []*models.DeckSummary, error) {
	return s.store.ListDecks(ctx, format, limit, offset)
}

// Update applies metadata changes and, when either board is supplied,
// replaces the deck's entries and recomputes its color identity.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Deck, error) {
	var name string
	if in.Name != nil {
		n, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		name = n
	}

	var main, side []models.DeckCard
	if in.Cards != nil {
		entries, err := toEntries(*in.Cards, models.BoardMain)
		if err != nil {
			return nil, err
		}
		main = entries
	}
	if in.Sideboard != nil {
		entries, err := toEntries(*in.Sideboard, models.BoardSideboard)
		if err != nil {
			return nil, err
		}
		side = entries
	}

	deck, err := s.store.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		deck.Name = name
	}
	if in.Format != nil {
		deck.Format = normalizeFormat(*in.Format)
	}
	if in.Description != nil {
		deck.Description = normalizeDescription(in.Description)
	}
	if in.Tags != nil {
		deck.Tags = normalizeTags(*in.Tags)
	}

	replace := in.ReplacesCards()
	if replace {
		if in.Cards != nil {
			deck.Cards = main
		}
		if in.Sideboard != nil {
			deck.Sideboard = side
		}

		resolved, err := s.Resolve(ctx, deck)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve deck cards: %w", err)
		}
		deck.ColorIdentity = resolved.ColorIdentity
	}

	if err := s.store.UpdateDeck(ctx, deck, replace); err != nil {
		return nil, fmt.Errorf("failed to update deck: %w", err)
	}

	s.logger.Info("deck updated", zap.String("deckID", id), zap.Bool("replacedCards", replace))
	s.publish(ctx, events.DeckUpdated, id, deck.Format)

	return s.store.GetDeck(ctx, id)
}

// Delete removes a deck.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteDeck(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deck deleted", zap.String("deckID", id))
	s.publish(ctx, events.DeckDeleted, id, "")
	return nil
}

func (s *Service) publish(ctx context.Context, eventType, id, format string) {
	s.events.Dispatch(events.NewTypedEvent(ctx, eventType, events.DeckChangedEvent{DeckID: id, Format: format}))
}

// OnEvent drops every cached report once new cards are imported.
func (s *Service) OnEvent(e events.Event) error {
	if e.Type != events.CardsImported || s.cache == nil {
		return nil
	}
	n := s.cache.Len()
	s.cache.Purge()
	s.logger.Debug("report cache purged", zap.Int("entries", n))
	return nil
}

// Name implements events.Observer.
func (s *Service) Name() string { return "deck-report-cache" }

// ShouldHandle implements events.Observer.
func (s *Service) ShouldHandle(eventType string) bool {
	return eventType == events.CardsImported
}

// Analyze produces the report for a stored deck. Reports are cached per deck
// version and catalog revision, so any deck write or card import invalidates
// them.
func (s *Service) Analyze(ctx context.Context, id string) (*analysis.Report, error) {
	deck, err := s.store.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}

	revision, err := s.catalog.Revision(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog revision: %w", err)
	}
	key := fmt.Sprintf("%s|%d|%s", deck.ID, deck.UpdatedAt.UnixNano(), revision)

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			s.metrics.CacheLookup(true)
			s.logger.Debug("analysis cache hit", zap.String("deckID", id))
			return v.(*analysis.Report), nil
		}
		s.metrics.CacheLookup(false)
	}

	report, err := s.analyze(ctx, deck)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Add(key, report)
	}
	return report, nil
}

// AnalyzeList analyzes a deck list without storing it.
func (s *Service) AnalyzeList(ctx context.Context, in CreateInput) (*analysis.Report, error) {
	main, side, err := in.entries()
	if err != nil {
		return nil, err
	}

	deck := &models.Deck{
		Name:      in.Name,
		Format:    normalizeFormat(in.Format),
		Cards:     main,
		Sideboard: side,
	}
	return s.analyze(ctx, deck)
}

func (s *Service) analyze(ctx context.Context, deck *models.Deck) (*analysis.Report, error) {
	start := time.Now()

	resolved, err := s.Resolve(ctx, deck)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deck cards: %w", err)
	}
	if err := s.suggestNames(ctx, resolved.Unresolved); err != nil {
		return nil, fmt.Errorf("failed to suggest card names: %w", err)
	}

	report := analysis.Analyze(analysis.Input{
		DeckID:     deck.ID,
		Name:       deck.Name,
		Format:     deck.Format,
		Main:       resolved.Main,
		Unresolved: resolved.Unresolved,
	}, s.registry.All())

	elapsed := time.Since(start)
	s.metrics.ObserveAnalysis(elapsed)
	s.logger.Debug("deck analyzed",
		zap.String("deckID", deck.ID),
		zap.Int("cards", report.Stats.TotalCards),
		zap.Int("synergies", len(report.Synergies)),
		zap.Int("unresolved", len(report.UnresolvedCards)),
		zap.Duration("elapsed", elapsed),
	)

	return report, nil
}
