package scryfall

import (
	"slices"
	"strings"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// faceSeparator joins the per-face text of multi-faced cards.
const faceSeparator = "\n//\n"

// ShouldImport reports whether a card belongs in the catalog. Memorabilia and
// tokens are skipped, as are digital-only cards that are not on Arena.
func ShouldImport(card *Card) bool {
	if card.ID == "" || card.Name == "" {
		return false
	}
	if card.SetType == "memorabilia" || card.SetType == "token" {
		return false
	}
	if card.Digital && !slices.Contains(card.Games, "arena") {
		return false
	}
	return true
}

// ToModel converts a Scryfall card to a catalog card. Multi-faced cards take
// missing top-level fields from their faces.
func ToModel(card *Card) *models.Card {
	m := &models.Card{
		ID:              card.ID,
		OracleID:        card.OracleID,
		Name:            card.Name,
		ManaCost:        card.ManaCost,
		CMC:             card.CMC,
		TypeLine:        card.TypeLine,
		OracleText:      card.OracleText,
		Colors:          nonNil(card.Colors),
		ColorIdentity:   nonNil(card.ColorIdentity),
		SetCode:         card.SetCode,
		SetName:         card.SetName,
		Rarity:          card.Rarity,
		CollectorNumber: card.CollectorNumber,
		Power:           optional(card.Power),
		Toughness:       optional(card.Toughness),
		Loyalty:         optional(card.Loyalty),
		Keywords:        nonNil(card.Keywords),
		Legalities:      card.Legalities,
		ImageURIs:       card.ImageURIs,
		Prices:          card.Prices,
		ReleasedAt:      card.ReleasedAt,
	}
	if m.Legalities == nil {
		m.Legalities = map[string]string{}
	}

	if len(card.CardFaces) == 0 {
		return m
	}

	front := card.CardFaces[0]
	if m.OracleText == "" {
		texts := make([]string, 0, len(card.CardFaces))
		for _, f := range card.CardFaces {
			if f.OracleText != "" {
				texts = append(texts, f.OracleText)
			}
		}
		m.OracleText = strings.Join(texts, faceSeparator)
	}
	if m.ManaCost == "" {
		m.ManaCost = front.ManaCost
	}
	if m.TypeLine == "" {
		m.TypeLine = front.TypeLine
	}
	if len(card.Colors) == 0 {
		m.Colors = faceColors(card.CardFaces)
	}
	if m.Power == nil {
		m.Power = optional(front.Power)
	}
	if m.Toughness == nil {
		m.Toughness = optional(front.Toughness)
	}
	if m.Loyalty == nil {
		m.Loyalty = optional(front.Loyalty)
	}
	if len(m.ImageURIs) == 0 {
		m.ImageURIs = front.ImageURIs
	}

	return m
}

// faceColors returns the union of face colors in first-seen order.
func faceColors(faces []CardFace) []string {
	colors := []string{}
	for _, f := range faces {
		for _, c := range f.Colors {
			if !slices.Contains(colors, c) {
				colors = append(colors, c)
			}
		}
	}
	return colors
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
