package repository

import (
	"context"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// SynergyPatternRepository handles database operations for synergy patterns.
type SynergyPatternRepository interface {
	// InsertIfAbsent stores the pattern unless one with the same name exists.
	// It reports whether a row was written.
	InsertIfAbsent(ctx context.Context, p *models.SynergyPattern) (bool, error)

	// List returns every pattern in insertion order.
	List(ctx context.Context) ([]*models.SynergyPattern, error)
}

type synergyPatternRepository struct {
	db Querier
}

// NewSynergyPatternRepository creates a new synergy pattern repository.
func NewSynergyPatternRepository(db Querier) SynergyPatternRepository {
	return &synergyPatternRepository{db: db}
}

func (r *synergyPatternRepository) InsertIfAbsent(ctx context.Context, p *models.SynergyPattern) (bool, error) {
	query := `
		INSERT INTO synergy_patterns (
			name, pattern_type, keywords, oracle_patterns, type_patterns, description, weight
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		string(p.Category),
		encodeStrings(p.Keywords),
		encodeStrings(p.OraclePatterns),
		encodeStrings(p.TypePatterns),
		p.Description,
		p.Weight,
	)
	if err != nil {
		return false, storeErr("insert synergy pattern "+p.Name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("read affected rows", err)
	}
	return n > 0, nil
}

func (r *synergyPatternRepository) List(ctx context.Context) ([]*models.SynergyPattern, error) {
	query := `
		SELECT id, name, pattern_type, keywords, oracle_patterns, type_patterns, description, weight
		FROM synergy_patterns
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("list synergy patterns", err)
	}
	defer func() { _ = rows.Close() }()

	patterns := []*models.SynergyPattern{}
	for rows.Next() {
		p := &models.SynergyPattern{}
		var category, keywords, oracle, types string
		if err := rows.Scan(&p.ID, &p.Name, &category, &keywords, &oracle, &types, &p.Description, &p.Weight); err != nil {
			return nil, storeErr("scan synergy pattern", err)
		}
		p.Category = models.PatternCategory(category)
		p.Keywords = decodeStrings(keywords)
		p.OraclePatterns = decodeStrings(oracle)
		p.TypePatterns = decodeStrings(types)
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate synergy patterns", err)
	}
	return patterns, nil
}
