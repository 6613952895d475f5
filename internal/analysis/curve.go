package analysis

import (
	"math"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// ComputeManaCurve buckets non-land cards by the integer part of their mana
// value. Mana values of 6 and above share the "6+" bucket.
func ComputeManaCurve(cards []models.ResolvedCard) ManaCurve {
	var curve ManaCurve

	for _, rc := range cards {
		if rc.Card == nil || rc.Quantity <= 0 || rc.Card.IsLand() {
			continue
		}

		qty := rc.Quantity
		switch int(math.Floor(math.Max(rc.Card.CMC, 0))) {
		case 0:
			curve.Zero += qty
		case 1:
			curve.One += qty
		case 2:
			curve.Two += qty
		case 3:
			curve.Three += qty
		case 4:
			curve.Four += qty
		case 5:
			curve.Five += qty
		default:
			curve.SixPlus += qty
		}
	}

	return curve
}
