package scryfall

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Card is the subset of a Scryfall card object stored in the catalog.
type Card struct {
	ID              string            `json:"id"`
	OracleID        string            `json:"oracle_id"`
	Name            string            `json:"name"`
	Layout          string            `json:"layout"`
	ReleasedAt      string            `json:"released_at"`
	ManaCost        string            `json:"mana_cost,omitempty"`
	CMC             float64           `json:"cmc"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text,omitempty"`
	Colors          []string          `json:"colors,omitempty"`
	ColorIdentity   []string          `json:"color_identity"`
	Keywords        []string          `json:"keywords,omitempty"`
	Power           string            `json:"power,omitempty"`
	Toughness       string            `json:"toughness,omitempty"`
	Loyalty         string            `json:"loyalty,omitempty"`
	SetCode         string            `json:"set"`
	SetName         string            `json:"set_name"`
	SetType         string            `json:"set_type"`
	CollectorNumber string            `json:"collector_number"`
	Rarity          string            `json:"rarity"`
	Digital         bool              `json:"digital"`
	Games           []string          `json:"games,omitempty"`
	Legalities      map[string]string `json:"legalities"`
	ImageURIs       json.RawMessage   `json:"image_uris,omitempty"`
	Prices          json.RawMessage   `json:"prices,omitempty"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name       string          `json:"name"`
	ManaCost   string          `json:"mana_cost,omitempty"`
	TypeLine   string          `json:"type_line"`
	OracleText string          `json:"oracle_text,omitempty"`
	Colors     []string        `json:"colors,omitempty"`
	Power      string          `json:"power,omitempty"`
	Toughness  string          `json:"toughness,omitempty"`
	Loyalty    string          `json:"loyalty,omitempty"`
	ImageURIs  json.RawMessage `json:"image_uris,omitempty"`
}

// SearchResult represents one page of search results.
type SearchResult struct {
	Object     string `json:"object"`
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page,omitempty"`
	Data       []Card `json:"data"`
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API. Scryfall also answers a
// search with no results this way.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
