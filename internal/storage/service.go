package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/repository"
)

// Service provides deck, catalog and pattern persistence. Writes that touch
// more than one table run in a single transaction.
type Service struct {
	db       *DB
	cards    repository.CardRepository
	decks    repository.DeckRepository
	patterns repository.SynergyPatternRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:       db,
		cards:    repository.NewCardRepository(db.Conn()),
		decks:    repository.NewDeckRepository(db.Conn()),
		patterns: repository.NewSynergyPatternRepository(db.Conn()),
	}
}

// Cards returns the card catalog repository.
func (s *Service) Cards() repository.CardRepository {
	return s.cards
}

// Patterns returns the synergy pattern repository.
func (s *Service) Patterns() repository.SynergyPatternRepository {
	return s.patterns
}

// CreateDeck inserts a deck with its entries and tags.
func (s *Service) CreateDeck(ctx context.Context, deck *models.Deck) error {
	stampDeck(deck, true)

	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		decks := repository.NewDeckRepository(tx)

		if err := decks.Create(ctx, deck); err != nil {
			return err
		}
		if err := decks.AddCards(ctx, deck.ID, deck.Entries()); err != nil {
			return err
		}
		return decks.SetTags(ctx, deck.ID, deck.Tags)
	})
}

// UpdateDeck writes deck metadata and tags. When replaceCards is set, all
// entries are deleted and the deck's current entries inserted in the same
// transaction.
func (s *Service) UpdateDeck(ctx context.Context, deck *models.Deck, replaceCards bool) error {
	stampDeck(deck, false)

	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		decks := repository.NewDeckRepository(tx)

		if err := decks.UpdateMetadata(ctx, deck); err != nil {
			return err
		}
		if err := decks.SetTags(ctx, deck.ID, deck.Tags); err != nil {
			return err
		}
		if !replaceCards {
			return nil
		}
		if err := decks.ClearCards(ctx, deck.ID); err != nil {
			return err
		}
		return decks.AddCards(ctx, deck.ID, deck.Entries())
	})
}

// GetDeck loads a deck with its entries split by board and its tags. The reads
// share one transaction so a concurrent card replacement is seen whole or not
// at all.
func (s *Service) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	var deck *models.Deck

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		decks := repository.NewDeckRepository(tx)

		d, err := decks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		entries, err := decks.GetCards(ctx, id)
		if err != nil {
			return err
		}
		d.Cards = []models.DeckCard{}
		d.Sideboard = []models.DeckCard{}
		for _, e := range entries {
			if e.Board == models.BoardSideboard {
				d.Sideboard = append(d.Sideboard, e)
			} else {
				d.Cards = append(d.Cards, e)
			}
		}

		if d.Tags, err = decks.GetTags(ctx, id); err != nil {
			return err
		}

		deck = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// ListDecks returns one page of deck summaries.
func (s *Service) ListDecks(ctx context.Context, format string, limit, offset int) (int, []*models.DeckSummary, error) {
	return s.decks.List(ctx, format, limit, offset)
}

// DeleteDeck removes a deck and everything attached to it.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		decks := repository.NewDeckRepository(tx)

		if err := decks.ClearCards(ctx, id); err != nil {
			return err
		}
		if err := decks.SetTags(ctx, id, nil); err != nil {
			return err
		}
		return decks.Delete(ctx, id)
	})
}

// UpsertCards writes a batch of catalog cards in one transaction and returns
// how many were written.
func (s *Service) UpsertCards(ctx context.Context, cards []*models.Card) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		repo := repository.NewCardRepository(tx)
		for _, c := range cards {
			if err := repo.Upsert(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert %d cards: %w", len(cards), err)
	}
	return len(cards), nil
}

// SeedPatterns inserts the given patterns, skipping names already present.
// It returns how many were new.
func (s *Service) SeedPatterns(ctx context.Context, patterns []*models.SynergyPattern) (int, error) {
	inserted := 0

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		repo := repository.NewSynergyPatternRepository(tx)
		for _, p := range patterns {
			ok, err := repo.InsertIfAbsent(ctx, p)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed synergy patterns: %w", err)
	}
	return inserted, nil
}

func stampDeck(deck *models.Deck, created bool) {
	t := time.Now().UTC()
	if created && deck.CreatedAt.IsZero() {
		deck.CreatedAt = t
	}
	if deck.UpdatedAt.IsZero() || !created {
		deck.UpdatedAt = t
	}
}
