package models

// PatternCategory classifies a synergy pattern.
type PatternCategory string

const (
	CategoryKeyword   PatternCategory = "keyword"
	CategoryTribal    PatternCategory = "tribal"
	CategoryMechanic  PatternCategory = "mechanic"
	CategoryArchetype PatternCategory = "archetype"
)

// Valid reports whether c is a known category.
func (c PatternCategory) Valid() bool {
	switch c {
	case CategoryKeyword, CategoryTribal, CategoryMechanic, CategoryArchetype:
		return true
	}
	return false
}

// SynergyPattern is a named rule for recognizing related cards. A card matches
// through its keywords first, then oracle text, then type line.
type SynergyPattern struct {
	ID             int64           `toml:"-"`
	Name           string          `toml:"name"`
	Category       PatternCategory `toml:"category"`
	Keywords       []string        `toml:"keywords"`
	OraclePatterns []string        `toml:"oracle_patterns"`
	TypePatterns   []string        `toml:"type_patterns"`
	Description    string          `toml:"description"`
	Weight         float64         `toml:"weight"`
}
