package events

// Event types.
const (
	CardsImported = "cards:imported"
	DeckCreated   = "deck:created"
	DeckUpdated   = "deck:updated"
	DeckDeleted   = "deck:deleted"
)

// CardsImportedEvent is the payload for cards:imported events.
type CardsImportedEvent struct {
	Source   string `json:"source"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// DeckChangedEvent is the payload for deck:created, deck:updated and
// deck:deleted events.
type DeckChangedEvent struct {
	DeckID string `json:"deckId"`
	Format string `json:"format,omitempty"`
}
