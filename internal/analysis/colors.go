package analysis

import "github.com/ramonehamilton/deck-analyzer/internal/storage/models"

// ComputeColorDistribution adds each card's quantity to every color it has.
// Colorless non-land cards count toward C; colorless lands count nowhere.
func ComputeColorDistribution(cards []models.ResolvedCard) ColorDistribution {
	var d ColorDistribution

	for _, rc := range cards {
		c, qty := rc.Card, rc.Quantity
		if c == nil || qty <= 0 {
			continue
		}

		if len(c.Colors) == 0 {
			if !c.IsLand() {
				d.C += qty
			}
			continue
		}

		for _, color := range c.Colors {
			switch color {
			case "W":
				d.W += qty
			case "U":
				d.U += qty
			case "B":
				d.B += qty
			case "R":
				d.R += qty
			case "G":
				d.G += qty
			}
		}
	}

	return d
}
