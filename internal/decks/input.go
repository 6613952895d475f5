package decks

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

const (
	defaultFormat = "standard"
	maxNameLength = 200
)

// ValidationError reports input rejected before any store mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// EntryInput is one requested card line. A zero quantity means one copy.
type EntryInput struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CreateInput describes a new deck.
type CreateInput struct {
	Name        string       `json:"name"`
	Format      string       `json:"format"`
	Description *string      `json:"description"`
	Tags        []string     `json:"tags"`
	Cards       []EntryInput `json:"cards"`
	Sideboard   []EntryInput `json:"sideboard"`

	// Text is an optional text deck list whose entries follow Cards and
	// Sideboard. See ParseDeckList.
	Text string `json:"text,omitempty"`
}

// entries validates both boards, including any text deck list.
func (in CreateInput) entries() (main, side []models.DeckCard, err error) {
	cards, sideboard := in.Cards, in.Sideboard
	if strings.TrimSpace(in.Text) != "" {
		textMain, textSide, err := ParseDeckList(in.Text)
		if err != nil {
			return nil, nil, err
		}
		cards = append(slices.Clip(cards), textMain...)
		sideboard = append(slices.Clip(sideboard), textSide...)
	}

	if main, err = toEntries(cards, models.BoardMain); err != nil {
		return nil, nil, err
	}
	if side, err = toEntries(sideboard, models.BoardSideboard); err != nil {
		return nil, nil, err
	}
	return main, side, nil
}

// UpdateInput changes the fields that are set. Supplying Cards or Sideboard
// replaces the entry list of that board and re-resolves the whole deck.
type UpdateInput struct {
	Name        *string       `json:"name"`
	Format      *string       `json:"format"`
	Description *string       `json:"description"`
	Tags        *[]string     `json:"tags"`
	Cards       *[]EntryInput `json:"cards"`
	Sideboard   *[]EntryInput `json:"sideboard"`
}

// ReplacesCards reports whether the update touches either board.
func (in UpdateInput) ReplacesCards() bool {
	return in.Cards != nil || in.Sideboard != nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "deck name is required")
	}
	if len(name) > maxNameLength {
		return "", invalid("name", "must be at most %d characters", maxNameLength)
	}
	return name, nil
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return defaultFormat
	}
	return format
}

func normalizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	d := strings.TrimSpace(*desc)
	if d == "" {
		return nil
	}
	return &d
}

// normalizeTags trims tags and drops empties and repeats, keeping order.
func normalizeTags(tags []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func toEntries(in []EntryInput, board models.Board) ([]models.DeckCard, error) {
	out := make([]models.DeckCard, 0, len(in))
	for i, e := range in {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, invalid(fmt.Sprintf("%s[%d].name", boardField(board), i), "card name is required")
		}

		qty := e.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 1 {
			return nil, invalid(fmt.Sprintf("%s[%d].quantity", boardField(board), i), "must be at least 1, got %d", e.Quantity)
		}

		out = append(out, models.DeckCard{CardName: name, Quantity: qty, Board: board})
	}
	return out, nil
}

func boardField(b models.Board) string {
	if b == models.BoardSideboard {
		return "sideboard"
	}
	return "cards"
}
