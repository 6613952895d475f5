package scryfall

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShouldImport(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want bool
	}{
		{"paper card", Card{ID: "1", Name: "Shock", SetType: "core"}, true},
		{"memorabilia", Card{ID: "1", Name: "Oversized", SetType: "memorabilia"}, false},
		{"token", Card{ID: "1", Name: "Goblin", SetType: "token"}, false},
		{"arena digital", Card{ID: "1", Name: "Alchemy Card", Digital: true, Games: []string{"arena"}}, true},
		{"mtgo only", Card{ID: "1", Name: "Vintage Masters", Digital: true, Games: []string{"mtgo"}}, false},
		{"missing id", Card{Name: "Nameless"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldImport(&tt.card); got != tt.want {
				t.Errorf("ShouldImport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToModel_SingleFaced(t *testing.T) {
	card := &Card{
		ID:            "c1",
		Name:          "Goblin Guide",
		ManaCost:      "{R}",
		CMC:           1,
		TypeLine:      "Creature — Goblin Scout",
		Colors:        []string{"R"},
		ColorIdentity: []string{"R"},
		Keywords:      []string{"Haste"},
		Power:         "2",
		Toughness:     "2",
		SetCode:       "zen",
		Legalities:    map[string]string{"modern": "legal"},
		Prices:        json.RawMessage(`{"usd":"1.00"}`),
	}

	m := ToModel(card)

	if m.Power == nil || *m.Power != "2" {
		t.Errorf("expected power 2, got %v", m.Power)
	}
	if m.Loyalty != nil {
		t.Errorf("expected no loyalty, got %v", *m.Loyalty)
	}
	if diff := cmp.Diff([]string{"Haste"}, m.Keywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	if string(m.Prices) != `{"usd":"1.00"}` {
		t.Errorf("unexpected prices %s", m.Prices)
	}
}

func TestToModel_DefaultsStructuredFields(t *testing.T) {
	m := ToModel(&Card{ID: "c1", Name: "Wastes", TypeLine: "Basic Land"})

	if m.Colors == nil || m.ColorIdentity == nil || m.Keywords == nil {
		t.Error("expected empty slices, not nil")
	}
	if m.Legalities == nil {
		t.Error("expected empty legalities map")
	}
}

func TestToModel_DoubleFaced(t *testing.T) {
	card := &Card{
		ID:            "dfc",
		Name:          "Delver of Secrets // Insectile Aberration",
		TypeLine:      "Creature — Human Wizard // Creature — Human Insect",
		CMC:           1,
		ColorIdentity: []string{"U"},
		CardFaces: []CardFace{
			{
				Name:       "Delver of Secrets",
				ManaCost:   "{U}",
				TypeLine:   "Creature — Human Wizard",
				OracleText: "At the beginning of your upkeep, look at the top card of your library.",
				Colors:     []string{"U"},
				Power:      "1",
				Toughness:  "1",
				ImageURIs:  json.RawMessage(`{"normal":"front.jpg"}`),
			},
			{
				Name:       "Insectile Aberration",
				TypeLine:   "Creature — Human Insect",
				OracleText: "Flying",
				Colors:     []string{"U"},
				Power:      "3",
				Toughness:  "2",
			},
		},
	}

	m := ToModel(card)

	wantText := "At the beginning of your upkeep, look at the top card of your library.\n//\nFlying"
	if m.OracleText != wantText {
		t.Errorf("oracle text = %q, want %q", m.OracleText, wantText)
	}
	if m.ManaCost != "{U}" {
		t.Errorf("expected front face mana cost, got %q", m.ManaCost)
	}
	if diff := cmp.Diff([]string{"U"}, m.Colors); diff != "" {
		t.Errorf("colors mismatch (-want +got):\n%s", diff)
	}
	if m.Power == nil || *m.Power != "1" {
		t.Errorf("expected front face power, got %v", m.Power)
	}
	if string(m.ImageURIs) != `{"normal":"front.jpg"}` {
		t.Errorf("expected front face images, got %s", m.ImageURIs)
	}
	if m.TypeLine != card.TypeLine {
		t.Errorf("top-level type line should be kept, got %q", m.TypeLine)
	}
}
