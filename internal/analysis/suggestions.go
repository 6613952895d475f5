package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// SuggestionType groups suggestions by the part of the deck they address.
type SuggestionType string

const (
	SuggestionLand        SuggestionType = "land"
	SuggestionCurve       SuggestionType = "curve"
	SuggestionComposition SuggestionType = "composition"
	SuggestionInteraction SuggestionType = "interaction"
)

// Priority orders suggestions; higher rank sorts first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort weight of p.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Suggestion is one build recommendation.
type Suggestion struct {
	Type     SuggestionType `json:"type"`
	Priority Priority       `json:"priority"`
	Message  string         `json:"message"`
}

const (
	minimumDeckSize      = 60
	landsPerAverageCMC   = 8
	landShortfallMargin  = 2
	landExcessMargin     = 4
	minTwoDrops          = 6
	maxTopEnd            = 12
	minCreatures         = 12
	minInteraction       = 4
	highCurveThreshold   = 2.5
	lowCurveCreatureMark = 3
)

// GenerateSuggestions applies the land, curve, composition and interaction
// rules independently and sorts the results by priority.
func GenerateSuggestions(stats Stats, curve ManaCurve) []Suggestion {
	out := []Suggestion{}
	avg := stats.AverageCMC
	avgText := strconv.FormatFloat(avg, 'f', -1, 64)

	expectedLands := int(math.Round(avg * landsPerAverageCMC))
	if stats.Lands < expectedLands-landShortfallMargin {
		out = append(out, Suggestion{
			Type:     SuggestionLand,
			Priority: PriorityHigh,
			Message:  fmt.Sprintf("Consider adding %d more lands for average CMC of %s", expectedLands-stats.Lands, avgText),
		})
	} else if stats.Lands > expectedLands+landExcessMargin {
		out = append(out, Suggestion{
			Type:     SuggestionLand,
			Priority: PriorityMedium,
			Message:  fmt.Sprintf("Deck has %d lands which may be high for average CMC of %s", stats.Lands, avgText),
		})
	}

	spells := stats.Creatures + stats.Artifacts + stats.Enchantments + stats.Instants + stats.Sorceries + stats.Planeswalkers
	if spells > 0 {
		if curve.Two < minTwoDrops && avg > highCurveThreshold {
			out = append(out, Suggestion{
				Type:     SuggestionCurve,
				Priority: PriorityHigh,
				Message:  "Low count of 2-drops may hurt consistency. Consider more early plays.",
			})
		}
		if curve.Four+curve.Five+curve.SixPlus > maxTopEnd {
			out = append(out, Suggestion{
				Type:     SuggestionCurve,
				Priority: PriorityMedium,
				Message:  "High curve with many 4+ drops. Consider trimming for lower curve.",
			})
		}
	}

	// An empty deck gets only the deck-size suggestion.
	if stats.TotalCards > 0 && stats.Creatures < minCreatures && avg < lowCurveCreatureMark {
		out = append(out, Suggestion{
			Type:     SuggestionComposition,
			Priority: PriorityMedium,
			Message:  "Low creature count for a lower-curve deck. Consider more threats.",
		})
	}
	if stats.TotalCards < minimumDeckSize {
		out = append(out, Suggestion{
			Type:     SuggestionComposition,
			Priority: PriorityHigh,
			Message:  fmt.Sprintf("Deck has %d cards. Standard requires minimum %d.", stats.TotalCards, minimumDeckSize),
		})
	}

	if stats.Instants+stats.Sorceries < minInteraction && avg > highCurveThreshold {
		out = append(out, Suggestion{
			Type:     SuggestionInteraction,
			Priority: PriorityMedium,
			Message:  "Low interaction/removal. Consider adding answers to opponent threats.",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})

	return out
}
