// Package analysis evaluates a resolved deck list. Every stage is a pure
// function of the mainboard cards and earlier stage outputs, so the same input
// always produces the same report.
package analysis

import "github.com/ramonehamilton/deck-analyzer/internal/storage/models"

// Report is the full result of analyzing one deck.
type Report struct {
	DeckID            string            `json:"deckId"`
	Name              string            `json:"name"`
	Format            string            `json:"format"`
	Stats             Stats             `json:"stats"`
	ManaCurve         ManaCurve         `json:"manaCurve"`
	ColorDistribution ColorDistribution `json:"colorDistribution"`
	Synergies         []Synergy         `json:"synergies"`
	Suggestions       []Suggestion      `json:"suggestions"`
	MetaPredictions   MetaPrediction    `json:"metaPredictions"`
	UnresolvedCards   []UnresolvedCard  `json:"unresolvedCards"`
}

// Stats holds quantity-weighted counts over the mainboard.
type Stats struct {
	TotalCards    int      `json:"totalCards"`
	Lands         int      `json:"lands"`
	Creatures     int      `json:"creatures"`
	Artifacts     int      `json:"artifacts"`
	Enchantments  int      `json:"enchantments"`
	Instants      int      `json:"instants"`
	Sorceries     int      `json:"sorceries"`
	Planeswalkers int      `json:"planeswalkers"`
	Battles       int      `json:"battles"`
	NonLandCards  int      `json:"nonLandCards"`
	AverageCMC    float64  `json:"averageCmc"`
	ColorIdentity []string `json:"colorIdentity"`
}

// ManaCurve counts non-land cards by mana value. Field order fixes the JSON
// key order.
type ManaCurve struct {
	Zero    int `json:"0"`
	One     int `json:"1"`
	Two     int `json:"2"`
	Three   int `json:"3"`
	Four    int `json:"4"`
	Five    int `json:"5"`
	SixPlus int `json:"6+"`
}

// Total returns the number of cards across all buckets.
func (c ManaCurve) Total() int {
	return c.Zero + c.One + c.Two + c.Three + c.Four + c.Five + c.SixPlus
}

// Buckets returns the bucket labels and counts in curve order.
func (c ManaCurve) Buckets() ([]string, []int) {
	return []string{"0", "1", "2", "3", "4", "5", "6+"},
		[]int{c.Zero, c.One, c.Two, c.Three, c.Four, c.Five, c.SixPlus}
}

// ColorDistribution counts card quantities per color symbol; C is colorless.
type ColorDistribution struct {
	W int `json:"W"`
	U int `json:"U"`
	B int `json:"B"`
	R int `json:"R"`
	G int `json:"G"`
	C int `json:"C"`
}

// Symbols returns the symbols and counts in WUBRG-then-C order.
func (d ColorDistribution) Symbols() ([]string, []int) {
	return []string{"W", "U", "B", "R", "G", "C"}, []int{d.W, d.U, d.B, d.R, d.G, d.C}
}

// Synergy is a pattern with enough support in the deck.
type Synergy struct {
	Type         models.PatternCategory `json:"type"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Cards        []string               `json:"cards"`
	SupportCount int                    `json:"supportCount"`
	Weight       float64                `json:"weight"`
}

// UnresolvedCard is a deck entry whose name matched no catalog card. It is left
// out of every computed section of the report.
type UnresolvedCard struct {
	Name        string       `json:"name"`
	Board       models.Board `json:"board"`
	Quantity    int          `json:"quantity"`
	Suggestions []string     `json:"suggestions"`
}

// Input is a deck after name resolution.
type Input struct {
	DeckID     string
	Name       string
	Format     string
	Main       []models.ResolvedCard
	Unresolved []UnresolvedCard
}
