package models

import "time"

// Board identifies which part of a deck an entry belongs to.
type Board string

const (
	BoardMain      Board = "main"
	BoardSideboard Board = "sideboard"
)

// Valid reports whether b is a known board.
func (b Board) Valid() bool {
	return b == BoardMain || b == BoardSideboard
}

// Deck is a user-owned deck list.
type Deck struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Format        string     `json:"format"`
	Description   *string    `json:"description"`
	ColorIdentity []string   `json:"color_identity"`
	Tags          []string   `json:"tags"`
	Cards         []DeckCard `json:"cards"`
	Sideboard     []DeckCard `json:"sideboard"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DeckCard is one entry of a deck list. CardID is the catalog id the name
// resolved to when the entry was written, nil if it did not resolve.
type DeckCard struct {
	ID       int64   `json:"-"`
	DeckID   string  `json:"-"`
	CardName string  `json:"name"`
	CardID   *string `json:"card_id,omitempty"`
	Quantity int     `json:"quantity"`
	Board    Board   `json:"board"`
}

// Entries returns the mainboard followed by the sideboard.
func (d *Deck) Entries() []DeckCard {
	out := make([]DeckCard, 0, len(d.Cards)+len(d.Sideboard))
	out = append(out, d.Cards...)
	return append(out, d.Sideboard...)
}

// DeckSummary is a deck row as shown in listings.
type DeckSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Format        string    `json:"format"`
	Description   *string   `json:"description"`
	ColorIdentity []string  `json:"color_identity"`
	Tags          []string  `json:"tags"`
	CardCount     int       `json:"card_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ResolvedCard is a catalog card joined with the quantity of the deck entry
// that named it.
type ResolvedCard struct {
	Card     *Card
	Quantity int
}
