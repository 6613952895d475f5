package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// DeckRepository handles database operations for decks, their card entries and
// tags. Multi-statement writes are composed by the caller inside a transaction.
type DeckRepository interface {
	// Create inserts the deck row.
	Create(ctx context.Context, deck *models.Deck) error

	// UpdateMetadata rewrites name, format, description, color identity and
	// updated_at.
	UpdateMetadata(ctx context.Context, deck *models.Deck) error

	// GetByID retrieves the deck row without cards or tags.
	GetByID(ctx context.Context, id string) (*models.Deck, error)

	// List returns the number of decks in format (all formats when empty) and
	// one page of summaries, most recently updated first.
	List(ctx context.Context, format string, limit, offset int) (int, []*models.DeckSummary, error)

	// Delete removes the deck row.
	Delete(ctx context.Context, id string) error

	// AddCards appends entries to a deck, keeping their order per board.
	AddCards(ctx context.Context, deckID string, cards []models.DeckCard) error

	// GetCards retrieves all entries of a deck in insertion order.
	GetCards(ctx context.Context, deckID string) ([]models.DeckCard, error)

	// ClearCards removes all entries from a deck.
	ClearCards(ctx context.Context, deckID string) error

	// SetTags replaces the tags of a deck.
	SetTags(ctx context.Context, deckID string, tags []string) error

	// GetTags retrieves the tags of a deck in insertion order.
	GetTags(ctx context.Context, deckID string) ([]string, error)
}

type deckRepository struct {
	db Querier
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db Querier) DeckRepository {
	return &deckRepository{db: db}
}

// Create inserts a new deck row.
func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (id, name, format, description, color_identity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.ID,
		deck.Name,
		deck.Format,
		deck.Description,
		encodeStrings(deck.ColorIdentity),
		deck.CreatedAt.UTC(),
		deck.UpdatedAt.UTC(),
	)
	if err != nil {
		return storeErr("create deck", err)
	}
	return nil
}

// UpdateMetadata updates the mutable columns of a deck row.
func (r *deckRepository) UpdateMetadata(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks
		SET name = ?, format = ?, description = ?, color_identity = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		deck.Name,
		deck.Format,
		deck.Description,
		encodeStrings(deck.ColorIdentity),
		deck.UpdatedAt.UTC(),
		deck.ID,
	)
	if err != nil {
		return storeErr("update deck", err)
	}
	return requireAffected(res, "deck", deck.ID)
}

// GetByID retrieves a deck row by id.
func (r *deckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	query := `
		SELECT id, name, format, description, color_identity, created_at, updated_at
		FROM decks
		WHERE id = ?
	`

	deck := &models.Deck{}
	var identity string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.Name,
		&deck.Format,
		&deck.Description,
		&identity,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("deck %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get deck by id", err)
	}

	deck.ColorIdentity = decodeStrings(identity)
	return deck, nil
}

// List returns decks ordered by updated_at descending with their mainboard
// card count.
func (r *deckRepository) List(ctx context.Context, format string, limit, offset int) (int, []*models.DeckSummary, error) {
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	var args []any
	if f := strings.TrimSpace(format); f != "" {
		where = " WHERE LOWER(d.format) = LOWER(?)"
		args = append(args, f)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decks d"+where, args...).Scan(&total); err != nil {
		return 0, nil, storeErr("count decks", err)
	}

	query := `
		SELECT d.id, d.name, d.format, d.description, d.color_identity,
		       d.created_at, d.updated_at,
		       COALESCE(SUM(CASE WHEN dc.board = 'main' THEN dc.quantity ELSE 0 END), 0)
		FROM decks d
		LEFT JOIN deck_cards dc ON dc.deck_id = d.id` + where + `
		GROUP BY d.id
		ORDER BY d.updated_at DESC, d.id ASC
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return 0, nil, storeErr("list decks", err)
	}
	defer func() { _ = rows.Close() }()

	decks := []*models.DeckSummary{}
	for rows.Next() {
		d := &models.DeckSummary{}
		var identity string
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.Format,
			&d.Description,
			&identity,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.CardCount,
		); err != nil {
			return 0, nil, storeErr("scan deck", err)
		}
		d.ColorIdentity = decodeStrings(identity)
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, storeErr("iterate decks", err)
	}

	for _, d := range decks {
		tags, err := r.GetTags(ctx, d.ID)
		if err != nil {
			return 0, nil, err
		}
		d.Tags = tags
	}

	return total, decks, nil
}

// Delete removes a deck row.
func (r *deckRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM decks WHERE id = ?", id)
	if err != nil {
		return storeErr("delete deck", err)
	}
	return requireAffected(res, "deck", id)
}

// AddCards inserts entries with positions following any existing entries.
func (r *deckRepository) AddCards(ctx context.Context, deckID string, cards []models.DeckCard) error {
	query := `
		INSERT INTO deck_cards (deck_id, card_name, card_id, quantity, board, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for i, c := range cards {
		board := c.Board
		if board == "" {
			board = models.BoardMain
		}
		if _, err := r.db.ExecContext(ctx, query, deckID, c.CardName, c.CardID, c.Quantity, string(board), i); err != nil {
			return storeErr("add card to deck", err)
		}
	}
	return nil
}

// GetCards retrieves all entries of a deck.
func (r *deckRepository) GetCards(ctx context.Context, deckID string) ([]models.DeckCard, error) {
	query := `
		SELECT id, deck_id, card_name, card_id, quantity, board
		FROM deck_cards
		WHERE deck_id = ?
		ORDER BY CASE board WHEN 'main' THEN 0 ELSE 1 END, position ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, storeErr("get deck cards", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []models.DeckCard{}
	for rows.Next() {
		var c models.DeckCard
		var board string
		if err := rows.Scan(&c.ID, &c.DeckID, &c.CardName, &c.CardID, &c.Quantity, &board); err != nil {
			return nil, storeErr("scan deck card", err)
		}
		c.Board = models.Board(board)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate deck cards", err)
	}
	return cards, nil
}

// ClearCards removes all entries from a deck.
func (r *deckRepository) ClearCards(ctx context.Context, deckID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM deck_cards WHERE deck_id = ?", deckID); err != nil {
		return storeErr("clear deck cards", err)
	}
	return nil
}

// SetTags replaces the tags of a deck.
func (r *deckRepository) SetTags(ctx context.Context, deckID string, tags []string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM deck_tags WHERE deck_id = ?", deckID); err != nil {
		return storeErr("clear deck tags", err)
	}
	for i, tag := range tags {
		_, err := r.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO deck_tags (deck_id, tag, position) VALUES (?, ?, ?)",
			deckID, tag, i,
		)
		if err != nil {
			return storeErr("add deck tag", err)
		}
	}
	return nil
}

// GetTags retrieves the tags of a deck.
func (r *deckRepository) GetTags(ctx context.Context, deckID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT tag FROM deck_tags WHERE deck_id = ? ORDER BY position ASC, tag ASC", deckID)
	if err != nil {
		return nil, storeErr("get deck tags", err)
	}
	defer func() { _ = rows.Close() }()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, storeErr("scan deck tag", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate deck tags", err)
	}
	return tags, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}
