// Package models defines the records persisted by the storage layer.
package models

import (
	"encoding/json"
	"strings"
)

// Card is a single catalog entry imported from Scryfall.
type Card struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id,omitempty"`
	Name            string            `json:"name"`
	ManaCost        string            `json:"mana_cost"`
	CMC             float64           `json:"cmc"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text"`
	Colors          []string          `json:"colors"`
	ColorIdentity   []string          `json:"color_identity"`
	SetCode         string            `json:"set_code"`
	SetName         string            `json:"set_name"`
	Rarity          string            `json:"rarity"`
	CollectorNumber string            `json:"collector_number,omitempty"`
	Power           *string           `json:"power"`
	Toughness       *string           `json:"toughness"`
	Loyalty         *string           `json:"loyalty"`
	Keywords        []string          `json:"keywords"`
	Legalities      map[string]string `json:"legalities"`
	ImageURIs       json.RawMessage   `json:"image_uris,omitempty"`
	Prices          json.RawMessage   `json:"prices,omitempty"`
	ReleasedAt      string            `json:"released_at,omitempty"`
}

// HasType reports whether the type line contains t, ignoring case.
func (c *Card) HasType(t string) bool {
	return strings.Contains(strings.ToLower(c.TypeLine), strings.ToLower(t))
}

// IsLand reports whether the card is a land.
func (c *Card) IsLand() bool {
	return c.HasType("land")
}

// SetInfo identifies a printing set.
type SetInfo struct {
	Code       string `json:"set_code"`
	Name       string `json:"set_name"`
	ReleasedAt string `json:"released_at,omitempty"`
}
