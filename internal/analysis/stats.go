package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// ComputeStats counts card types and mana values. Type counters are substring
// tests on the lowercase type line, so an artifact creature counts as both.
func ComputeStats(cards []models.ResolvedCard) Stats {
	s := Stats{ColorIdentity: []string{}}
	identity := make(map[string]struct{})
	var cmcTotal float64

	for _, rc := range cards {
		c, qty := rc.Card, rc.Quantity
		if c == nil || qty <= 0 {
			continue
		}

		s.TotalCards += qty
		typeLine := strings.ToLower(c.TypeLine)

		isLand := strings.Contains(typeLine, "land")
		if isLand {
			s.Lands += qty
		}
		if strings.Contains(typeLine, "creature") {
			s.Creatures += qty
		}
		if strings.Contains(typeLine, "artifact") {
			s.Artifacts += qty
		}
		if strings.Contains(typeLine, "enchantment") {
			s.Enchantments += qty
		}
		if strings.Contains(typeLine, "instant") {
			s.Instants += qty
		}
		if strings.Contains(typeLine, "sorcery") {
			s.Sorceries += qty
		}
		if strings.Contains(typeLine, "planeswalker") {
			s.Planeswalkers += qty
		}
		if strings.Contains(typeLine, "battle") {
			s.Battles += qty
		}

		if !isLand {
			cmcTotal += c.CMC * float64(qty)
		}

		for _, sym := range c.ColorIdentity {
			identity[sym] = struct{}{}
		}
	}

	s.NonLandCards = s.TotalCards - s.Lands
	if s.NonLandCards > 0 {
		s.AverageCMC = roundTenth(cmcTotal / float64(s.NonLandCards))
	}

	for sym := range identity {
		s.ColorIdentity = append(s.ColorIdentity, sym)
	}
	sort.Strings(s.ColorIdentity)

	return s
}

// roundTenth rounds to one decimal place, half away from zero.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
