package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

var (
	elves = &models.SynergyPattern{
		Name: "Elves", Category: models.CategoryTribal, TypePatterns: []string{"Elf"},
		Description: "Elf creature synergy", Weight: 1,
	}
	lifegain = &models.SynergyPattern{
		Name: "Lifegain", Category: models.CategoryArchetype, OraclePatterns: []string{"gain life", "lifelink"},
		Description: "Life gain matters", Weight: 1,
	}
	renown = &models.SynergyPattern{
		Name: "Renown", Category: models.CategoryKeyword, Keywords: []string{"Renown"},
		Description: "Counters on dealing combat damage", Weight: 1,
	}
)

func TestDetectSynergies(t *testing.T) {
	tests := []struct {
		name     string
		cards    []models.ResolvedCard
		patterns []*models.SynergyPattern
		want     []Synergy
	}{
		{
			name:     "no cards",
			patterns: []*models.SynergyPattern{elves},
			want:     []Synergy{},
		},
		{
			name: "single card with four copies qualifies",
			cards: []models.ResolvedCard{
				rc("Llanowar Elves", "Creature — Elf Druid", 1, 4, "G"),
			},
			patterns: []*models.SynergyPattern{elves},
			want: []Synergy{
				{Type: models.CategoryTribal, Name: "Elves", Description: "Elf creature synergy", Cards: []string{"Llanowar Elves"}, SupportCount: 4, Weight: 1},
			},
		},
		{
			name: "single card with three copies does not qualify",
			cards: []models.ResolvedCard{
				rc("Llanowar Elves", "Creature — Elf Druid", 1, 3, "G"),
			},
			patterns: []*models.SynergyPattern{elves},
			want:     []Synergy{},
		},
		{
			name: "two distinct single copies qualify",
			cards: []models.ResolvedCard{
				withKeywords(rc("Knight A", "Creature — Human Knight", 2, 1, "W"), "Renown"),
				withKeywords(rc("Knight B", "Creature — Human Knight", 3, 1, "W"), "Renown"),
				rc("Knight C", "Creature — Human Knight", 3, 4, "W"),
			},
			patterns: []*models.SynergyPattern{renown},
			want: []Synergy{
				{Type: models.CategoryKeyword, Name: "Renown", Description: "Counters on dealing combat damage", Cards: []string{"Knight A", "Knight B"}, SupportCount: 2, Weight: 1},
			},
		},
		{
			name: "sorted by support with ties in pattern order",
			cards: []models.ResolvedCard{
				withText(rc("Healer Elf", "Creature — Elf Cleric", 2, 2, "W"), "When this enters, you gain life."),
				rc("Elvish Mystic", "Creature — Elf Druid", 1, 6, "G"),
				withText(rc("Soul Warden", "Creature — Human Cleric", 1, 4, "W"), "Whenever another creature enters, you gain 1 life."),
				withText(rc("Lifelinker", "Creature — Bat", 2, 4, "B"), "Flying, lifelink"),
				withKeywords(rc("Renowned One", "Creature — Human", 2, 6, "W"), "Renown"),
			},
			patterns: []*models.SynergyPattern{lifegain, renown, elves},
			want: []Synergy{
				{Type: models.CategoryTribal, Name: "Elves", Description: "Elf creature synergy", Cards: []string{"Healer Elf", "Elvish Mystic"}, SupportCount: 8, Weight: 1},
				{Type: models.CategoryArchetype, Name: "Lifegain", Description: "Life gain matters", Cards: []string{"Healer Elf", "Lifelinker"}, SupportCount: 6, Weight: 1},
				{Type: models.CategoryKeyword, Name: "Renown", Description: "Counters on dealing combat damage", Cards: []string{"Renowned One"}, SupportCount: 6, Weight: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSynergies(tt.cards, tt.patterns)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DetectSynergies() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
