package synergy

import (
	"slices"
	"strings"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// Rule names the rule list that produced a match.
type Rule int

const (
	NoMatch Rule = iota
	KeywordRule
	OracleRule
	TypeRule
)

func (r Rule) String() string {
	switch r {
	case KeywordRule:
		return "keyword"
	case OracleRule:
		return "oracle"
	case TypeRule:
		return "type"
	}
	return "none"
}

// Match tests card against p. Keywords must match a card keyword exactly;
// oracle and type patterns are case-insensitive substrings. The first rule
// list that hits decides the result.
func Match(p *models.SynergyPattern, card *models.Card) Rule {
	if card == nil || p == nil {
		return NoMatch
	}

	for _, kw := range p.Keywords {
		if slices.Contains(card.Keywords, kw) {
			return KeywordRule
		}
	}

	if len(p.OraclePatterns) > 0 {
		text := strings.ToLower(card.OracleText)
		for _, pat := range p.OraclePatterns {
			if strings.Contains(text, strings.ToLower(pat)) {
				return OracleRule
			}
		}
	}

	if len(p.TypePatterns) > 0 {
		typeLine := strings.ToLower(card.TypeLine)
		for _, pat := range p.TypePatterns {
			if strings.Contains(typeLine, strings.ToLower(pat)) {
				return TypeRule
			}
		}
	}

	return NoMatch
}
