package decks

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ramonehamilton/deck-analyzer/internal/analysis"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

const maxNameSuggestions = 3

// ResolvedDeck is a deck joined against the catalog. Entries that named no
// card are kept apart in Unresolved and never reach the analysis.
type ResolvedDeck struct {
	Deck          *models.Deck
	Main          []models.ResolvedCard
	Sideboard     []models.ResolvedCard
	ColorIdentity []string
	Unresolved    []analysis.UnresolvedCard
}

// Resolve looks up every entry of both boards in one catalog query. It also
// fills in each entry's CardID on the deck.
func (s *Service) Resolve(ctx context.Context, deck *models.Deck) (*ResolvedDeck, error) {
	names := make([]string, 0, len(deck.Cards)+len(deck.Sideboard))
	for _, e := range deck.Entries() {
		names = append(names, e.CardName)
	}

	cards, err := s.catalog.GetManyByName(ctx, names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*models.Card, len(cards))
	for _, c := range cards {
		byName[strings.ToLower(c.Name)] = c
	}

	rd := &ResolvedDeck{
		Deck:          deck,
		Main:          []models.ResolvedCard{},
		Sideboard:     []models.ResolvedCard{},
		ColorIdentity: []string{},
		Unresolved:    []analysis.UnresolvedCard{},
	}
	identity := make(map[string]struct{})

	resolveBoard := func(entries []models.DeckCard, board models.Board) []models.ResolvedCard {
		out := []models.ResolvedCard{}
		for i := range entries {
			e := &entries[i]
			card, ok := byName[strings.ToLower(strings.TrimSpace(e.CardName))]
			if !ok {
				e.CardID = nil
				rd.Unresolved = append(rd.Unresolved, analysis.UnresolvedCard{
					Name:        e.CardName,
					Board:       board,
					Quantity:    e.Quantity,
					Suggestions: []string{},
				})
				continue
			}

			id := card.ID
			e.CardID = &id
			out = append(out, models.ResolvedCard{Card: card, Quantity: e.Quantity})
			for _, sym := range card.ColorIdentity {
				identity[sym] = struct{}{}
			}
		}
		return out
	}

	rd.Main = resolveBoard(deck.Cards, models.BoardMain)
	rd.Sideboard = resolveBoard(deck.Sideboard, models.BoardSideboard)

	for sym := range identity {
		rd.ColorIdentity = append(rd.ColorIdentity, sym)
	}
	sort.Strings(rd.ColorIdentity)

	return rd, nil
}

// suggestNames attaches up to three close catalog names to each unresolved
// entry. The catalog name list is only read when something is unresolved.
func (s *Service) suggestNames(ctx context.Context, unresolved []analysis.UnresolvedCard) error {
	if len(unresolved) == 0 {
		return nil
	}

	names, err := s.catalog.Names(ctx)
	if err != nil {
		return err
	}

	for i := range unresolved {
		matches := fuzzy.Find(unresolved[i].Name, names)
		out := make([]string, 0, maxNameSuggestions)
		for _, m := range matches {
			if len(out) == maxNameSuggestions {
				break
			}
			out = append(out, m.Str)
		}
		unresolved[i].Suggestions = out
	}
	return nil
}
