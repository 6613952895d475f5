package analysis

import "github.com/ramonehamilton/deck-analyzer/internal/storage/models"

func rc(name, typeLine string, cmc float64, qty int, colors ...string) models.ResolvedCard {
	return models.ResolvedCard{
		Card: &models.Card{
			ID:            "id-" + name,
			Name:          name,
			TypeLine:      typeLine,
			CMC:           cmc,
			Colors:        colors,
			ColorIdentity: colors,
			Keywords:      []string{},
		},
		Quantity: qty,
	}
}

func withText(r models.ResolvedCard, text string) models.ResolvedCard {
	r.Card.OracleText = text
	return r
}

func withKeywords(r models.ResolvedCard, kws ...string) models.ResolvedCard {
	r.Card.Keywords = kws
	return r
}
