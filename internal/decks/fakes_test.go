package decks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/repository"
)

type fakeCatalog struct {
	mu        sync.Mutex
	cards     map[string]*models.Card
	revision  string
	err       error
	lookups   int
	nameReads int
}

func newFakeCatalog(cards ...*models.Card) *fakeCatalog {
	c := &fakeCatalog{cards: map[string]*models.Card{}, revision: "r1"}
	for _, card := range cards {
		c.cards[strings.ToLower(card.Name)] = card
	}
	return c
}

func (c *fakeCatalog) GetManyByName(_ context.Context, names []string) ([]*models.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups++
	if c.err != nil {
		return nil, c.err
	}
	seen := map[string]bool{}
	var out []*models.Card
	for _, n := range names {
		k := strings.ToLower(strings.TrimSpace(n))
		if seen[k] {
			continue
		}
		seen[k] = true
		if card, ok := c.cards[k]; ok {
			out = append(out, card)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Names(context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nameReads++
	var names []string
	for _, card := range c.cards {
		names = append(names, card.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *fakeCatalog) Revision(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision, nil
}

type fakeStore struct {
	mu     sync.Mutex
	decks  map[string]*models.Deck
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{decks: map[string]*models.Deck{}}
}

func cloneDeck(d *models.Deck) *models.Deck {
	cp := *d
	cp.Cards = append([]models.DeckCard{}, d.Cards...)
	cp.Sideboard = append([]models.DeckCard{}, d.Sideboard...)
	cp.Tags = append([]string{}, d.Tags...)
	cp.ColorIdentity = append([]string{}, d.ColorIdentity...)
	return &cp
}

func (s *fakeStore) CreateDeck(_ context.Context, deck *models.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	deck.CreatedAt = time.Now()
	deck.UpdatedAt = deck.CreatedAt
	s.decks[deck.ID] = cloneDeck(deck)
	return nil
}

func (s *fakeStore) UpdateDeck(_ context.Context, deck *models.Deck, replaceCards bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	existing, ok := s.decks[deck.ID]
	if !ok {
		return fmt.Errorf("deck %q: %w", deck.ID, repository.ErrNotFound)
	}
	next := cloneDeck(deck)
	if !replaceCards {
		next.Cards = existing.Cards
		next.Sideboard = existing.Sideboard
	}
	next.UpdatedAt = existing.UpdatedAt.Add(time.Second)
	s.decks[deck.ID] = next
	return nil
}

func (s *fakeStore) GetDeck(_ context.Context, id string) (*models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks[id]
	if !ok {
		return nil, fmt.Errorf("deck %q: %w", id, repository.ErrNotFound)
	}
	return cloneDeck(d), nil
}

func (s *fakeStore) ListDecks(context.Context, string, int, int) (int, []*models.DeckSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.DeckSummary
	for _, d := range s.decks {
		out = append(out, &models.DeckSummary{ID: d.ID, Name: d.Name})
	}
	return len(out), out, nil
}

func (s *fakeStore) DeleteDeck(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[id]; !ok {
		return fmt.Errorf("deck %q: %w", id, repository.ErrNotFound)
	}
	delete(s.decks, id)
	return nil
}

func testCard(name, typeLine string, cmc float64, identity ...string) *models.Card {
	return &models.Card{
		ID:            "id-" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		Name:          name,
		TypeLine:      typeLine,
		CMC:           cmc,
		Colors:        identity,
		ColorIdentity: identity,
		Keywords:      []string{},
	}
}
