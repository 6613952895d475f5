package analysis

import (
	"sort"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
	"github.com/ramonehamilton/deck-analyzer/internal/synergy"
)

const (
	minSynergyCards   = 2
	minSynergySupport = 4
)

// DetectSynergies runs every pattern over the cards. A pattern is reported
// when at least two distinct cards match or the matching quantities add up to
// four. Results are ordered by support count, ties keeping pattern order.
func DetectSynergies(cards []models.ResolvedCard, patterns []*models.SynergyPattern) []Synergy {
	found := []Synergy{}

	for _, p := range patterns {
		if p == nil {
			continue
		}

		var names []string
		seen := make(map[string]struct{})
		support := 0

		for _, rc := range cards {
			if rc.Card == nil || rc.Quantity <= 0 {
				continue
			}
			if synergy.Match(p, rc.Card) == synergy.NoMatch {
				continue
			}
			support += rc.Quantity
			if _, ok := seen[rc.Card.Name]; !ok {
				seen[rc.Card.Name] = struct{}{}
				names = append(names, rc.Card.Name)
			}
		}

		if len(names) >= minSynergyCards || support >= minSynergySupport {
			found = append(found, Synergy{
				Type:         p.Category,
				Name:         p.Name,
				Description:  p.Description,
				Cards:        names,
				SupportCount: support,
				Weight:       p.Weight,
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].SupportCount > found[j].SupportCount
	})

	return found
}
