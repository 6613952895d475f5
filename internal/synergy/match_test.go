package synergy

import (
	"testing"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

func TestMatch(t *testing.T) {
	mixed := &models.SynergyPattern{
		Name:           "Mixed",
		Keywords:       []string{"Lifelink"},
		OraclePatterns: []string{"Gain Life"},
		TypePatterns:   []string{"cleric"},
	}

	tests := []struct {
		name string
		card *models.Card
		want Rule
	}{
		{
			name: "keyword wins over oracle and type",
			card: &models.Card{Keywords: []string{"Lifelink"}, OracleText: "you gain life", TypeLine: "Creature — Human Cleric"},
			want: KeywordRule,
		},
		{
			name: "keyword match is exact",
			card: &models.Card{Keywords: []string{"lifelink"}},
			want: NoMatch,
		},
		{
			name: "oracle substring ignores case",
			card: &models.Card{OracleText: "Whenever you GAIN LIFE, draw a card.", TypeLine: "Creature — Cleric"},
			want: OracleRule,
		},
		{
			name: "type substring ignores case",
			card: &models.Card{TypeLine: "Creature — Human Cleric"},
			want: TypeRule,
		},
		{
			name: "no rule hits",
			card: &models.Card{TypeLine: "Instant", OracleText: "Draw two cards."},
			want: NoMatch,
		},
		{
			name: "nil card",
			card: nil,
			want: NoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(mixed, tt.card); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatch_Energy(t *testing.T) {
	patterns, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}

	var energy *models.SynergyPattern
	for _, p := range patterns {
		if p.Name == "Energy" {
			energy = p
		}
	}
	if energy == nil {
		t.Fatal("energy pattern missing")
	}

	card := &models.Card{OracleText: "When this enters, you get {E}{E}."}
	if got := Match(energy, card); got != OracleRule {
		t.Errorf("expected oracle match for energy symbol, got %v", got)
	}
}
