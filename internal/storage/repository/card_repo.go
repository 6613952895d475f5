package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// CardFilter holds the optional predicates of a catalog query. Set fields are
// AND-ed; the zero value matches every card.
type CardFilter struct {
	// Text is a case-insensitive substring of the name, oracle text or type line.
	Text string

	// Colors lists symbols that must all be present in the color identity.
	Colors []string

	// Type is a case-insensitive substring of the type line.
	Type string

	CMC    *float64
	CMCMin *float64
	CMCMax *float64

	Rarity string
	Set    string

	// LegalIn restricts results to cards legal in the named format.
	LegalIn string
}

// CardRepository handles database operations for the card catalog.
type CardRepository interface {
	// Find returns the total number of matching cards and one page of them,
	// ordered by cmc then name.
	Find(ctx context.Context, filter CardFilter, limit, offset int) (int, []*models.Card, error)

	// GetByName retrieves a card by name, ignoring case.
	GetByName(ctx context.Context, name string) (*models.Card, error)

	// GetByID retrieves a card by its Scryfall id.
	GetByID(ctx context.Context, id string) (*models.Card, error)

	// GetManyByName retrieves one card per distinct name. Lookup matches like
	// GetByName and names with no match are omitted.
	GetManyByName(ctx context.Context, names []string) ([]*models.Card, error)

	// Upsert inserts a card or replaces the stored card with the same id.
	Upsert(ctx context.Context, card *models.Card) error

	// Names lists every distinct card name in the catalog.
	Names(ctx context.Context) ([]string, error)

	// Sets lists the distinct sets with cards legal in format, newest first.
	Sets(ctx context.Context, format string) ([]models.SetInfo, error)

	// Revision returns a token that changes whenever the catalog changes.
	Revision(ctx context.Context) (string, error)
}

type cardRepository struct {
	db Querier
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db Querier) CardRepository {
	return &cardRepository{db: db}
}

const cardColumns = `id, oracle_id, name, mana_cost, cmc, type_line, oracle_text,
	colors, color_identity, set_code, set_name, rarity, collector_number,
	power, toughness, loyalty, keywords, legalities, image_uris, prices, released_at`

func buildCardWhere(f CardFilter) (string, []any) {
	var clauses []string
	var args []any

	if text := strings.TrimSpace(f.Text); text != "" {
		p := "%" + escapeLike(text) + "%"
		clauses = append(clauses, `(name LIKE ? ESCAPE '\' OR oracle_text LIKE ? ESCAPE '\' OR type_line LIKE ? ESCAPE '\')`)
		args = append(args, p, p, p)
	}

	for _, c := range f.Colors {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		clauses = append(clauses, `color_identity LIKE ? ESCAPE '\'`)
		args = append(args, `%"`+escapeLike(c)+`"%`)
	}

	if t := strings.TrimSpace(f.Type); t != "" {
		clauses = append(clauses, `type_line LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(t)+"%")
	}

	if f.CMC != nil {
		clauses = append(clauses, "cmc = ?")
		args = append(args, *f.CMC)
	}
	if f.CMCMin != nil {
		clauses = append(clauses, "cmc >= ?")
		args = append(args, *f.CMCMin)
	}
	if f.CMCMax != nil {
		clauses = append(clauses, "cmc <= ?")
		args = append(args, *f.CMCMax)
	}

	if r := strings.TrimSpace(f.Rarity); r != "" {
		clauses = append(clauses, "LOWER(rarity) = LOWER(?)")
		args = append(args, r)
	}
	if s := strings.TrimSpace(f.Set); s != "" {
		clauses = append(clauses, "LOWER(set_code) = LOWER(?)")
		args = append(args, s)
	}

	if l := strings.TrimSpace(f.LegalIn); l != "" {
		clauses = append(clauses, "json_extract(legalities, ?) = 'legal'")
		args = append(args, legalityPath(l))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Find returns the total match count and the requested page.
func (r *cardRepository) Find(ctx context.Context, filter CardFilter, limit, offset int) (int, []*models.Card, error) {
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	where, args := buildCardWhere(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards"+where, args...).Scan(&total); err != nil {
		return 0, nil, storeErr("count cards", err)
	}

	query := "SELECT " + cardColumns + " FROM cards" + where + " ORDER BY cmc ASC, name ASC, id ASC LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return 0, nil, storeErr("query cards", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return 0, nil, storeErr("scan card", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, storeErr("iterate cards", err)
	}

	return total, cards, nil
}

// GetByName retrieves the newest printing of a card by name.
func (r *cardRepository) GetByName(ctx context.Context, name string) (*models.Card, error) {
	query := "SELECT " + cardColumns + ` FROM cards
		WHERE name = ? COLLATE NOCASE
		ORDER BY released_at DESC, id ASC
		LIMIT 1`

	card, err := scanCard(r.db.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get card by name", err)
	}
	return card, nil
}

// GetByID retrieves a card by its id.
func (r *cardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	query := "SELECT " + cardColumns + " FROM cards WHERE id = ?"

	card, err := scanCard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get card by id", err)
	}
	return card, nil
}

// GetManyByName resolves names in input order, one card per distinct name.
func (r *cardRepository) GetManyByName(ctx context.Context, names []string) ([]*models.Card, error) {
	// keys dedupe case-insensitively in Go; the query gets the caller's
	// spelling since NOCASE only folds ASCII.
	keys := make([]string, 0, len(names))
	spelled := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		k := strings.ToLower(n)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
		spelled = append(spelled, n)
	}

	found := make(map[string]*models.Card, len(keys))
	for start := 0; start < len(spelled); start += maxQueryParams {
		end := min(start+maxQueryParams, len(spelled))
		chunk := spelled[start:end]

		query := "SELECT " + cardColumns + " FROM cards WHERE name COLLATE NOCASE IN (" +
			placeholders(len(chunk)) + ") ORDER BY released_at DESC, id ASC"

		args := make([]any, len(chunk))
		for i, n := range chunk {
			args[i] = n
		}

		if err := r.collectByName(ctx, query, args, found); err != nil {
			return nil, err
		}
	}

	cards := make([]*models.Card, 0, len(found))
	for _, k := range keys {
		if card, ok := found[k]; ok {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// collectByName keeps the first row seen for each lowercased name.
func (r *cardRepository) collectByName(ctx context.Context, query string, args []any, found map[string]*models.Card) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return storeErr("query cards by name", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return storeErr("scan card", err)
		}
		k := strings.ToLower(card.Name)
		if _, ok := found[k]; !ok {
			found[k] = card
		}
	}
	if err := rows.Err(); err != nil {
		return storeErr("iterate cards", err)
	}
	return nil
}

// Upsert inserts or replaces a card keyed by id.
func (r *cardRepository) Upsert(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (
			id, oracle_id, name, mana_cost, cmc, type_line, oracle_text,
			colors, color_identity, set_code, set_name, rarity, collector_number,
			power, toughness, loyalty, keywords, legalities, image_uris, prices,
			released_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			oracle_id = excluded.oracle_id,
			name = excluded.name,
			mana_cost = excluded.mana_cost,
			cmc = excluded.cmc,
			type_line = excluded.type_line,
			oracle_text = excluded.oracle_text,
			colors = excluded.colors,
			color_identity = excluded.color_identity,
			set_code = excluded.set_code,
			set_name = excluded.set_name,
			rarity = excluded.rarity,
			collector_number = excluded.collector_number,
			power = excluded.power,
			toughness = excluded.toughness,
			loyalty = excluded.loyalty,
			keywords = excluded.keywords,
			legalities = excluded.legalities,
			image_uris = excluded.image_uris,
			prices = excluded.prices,
			released_at = excluded.released_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		nullString(card.OracleID),
		card.Name,
		nullString(card.ManaCost),
		card.CMC,
		card.TypeLine,
		card.OracleText,
		encodeStrings(card.Colors),
		encodeStrings(card.ColorIdentity),
		nullString(card.SetCode),
		nullString(card.SetName),
		nullString(card.Rarity),
		nullString(card.CollectorNumber),
		card.Power,
		card.Toughness,
		card.Loyalty,
		encodeStrings(card.Keywords),
		encodeStringMap(card.Legalities),
		rawOrEmptyObject(card.ImageURIs),
		rawOrEmptyObject(card.Prices),
		nullString(card.ReleasedAt),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return storeErr("upsert card "+card.ID, err)
	}
	return nil
}

// Names lists distinct card names alphabetically.
func (r *cardRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT name FROM cards ORDER BY name ASC")
	if err != nil {
		return nil, storeErr("query card names", err)
	}
	defer func() { _ = rows.Close() }()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeErr("scan card name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate card names", err)
	}
	return names, nil
}

// Sets lists the sets that have at least one card legal in format. An empty
// format lists every set.
func (r *cardRepository) Sets(ctx context.Context, format string) ([]models.SetInfo, error) {
	query := `
		SELECT set_code, COALESCE(set_name, ''), COALESCE(MAX(released_at), '')
		FROM cards
		WHERE set_code IS NOT NULL`
	var args []any
	if strings.TrimSpace(format) != "" {
		query += " AND json_extract(legalities, ?) = 'legal'"
		args = append(args, legalityPath(format))
	}
	query += `
		GROUP BY set_code, set_name
		ORDER BY MAX(released_at) DESC, set_code ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("query sets", err)
	}
	defer func() { _ = rows.Close() }()

	sets := []models.SetInfo{}
	for rows.Next() {
		var s models.SetInfo
		if err := rows.Scan(&s.Code, &s.Name, &s.ReleasedAt); err != nil {
			return nil, storeErr("scan set", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate sets", err)
	}
	return sets, nil
}

// Revision combines the card count and the latest write time.
func (r *cardRepository) Revision(ctx context.Context) (string, error) {
	var count int
	var latest sql.NullString
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*), MAX(updated_at) FROM cards").Scan(&count, &latest)
	if err != nil {
		return "", storeErr("read catalog revision", err)
	}
	return fmt.Sprintf("%d@%s", count, latest.String), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var card models.Card
	var oracleID, manaCost, setCode, setName, rarity sql.NullString
	var collectorNumber, releasedAt sql.NullString
	var colors, identity, keywords, legalities, imageURIs, prices string

	err := row.Scan(
		&card.ID,
		&oracleID,
		&card.Name,
		&manaCost,
		&card.CMC,
		&card.TypeLine,
		&card.OracleText,
		&colors,
		&identity,
		&setCode,
		&setName,
		&rarity,
		&collectorNumber,
		&card.Power,
		&card.Toughness,
		&card.Loyalty,
		&keywords,
		&legalities,
		&imageURIs,
		&prices,
		&releasedAt,
	)
	if err != nil {
		return nil, err
	}

	card.OracleID = oracleID.String
	card.ManaCost = manaCost.String
	card.SetCode = setCode.String
	card.SetName = setName.String
	card.Rarity = rarity.String
	card.CollectorNumber = collectorNumber.String
	card.ReleasedAt = releasedAt.String
	card.Colors = decodeStrings(colors)
	card.ColorIdentity = decodeStrings(identity)
	card.Keywords = decodeStrings(keywords)
	card.Legalities = decodeStringMap(legalities)
	card.ImageURIs = json.RawMessage(imageURIs)
	card.Prices = json.RawMessage(prices)

	return &card, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
