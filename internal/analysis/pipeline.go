package analysis

import "github.com/ramonehamilton/deck-analyzer/internal/storage/models"

// Analyze runs every stage over the resolved mainboard. It never fails; an
// empty deck yields the all-zero report.
func Analyze(in Input, patterns []*models.SynergyPattern) *Report {
	stats := ComputeStats(in.Main)
	curve := ComputeManaCurve(in.Main)

	unresolved := in.Unresolved
	if unresolved == nil {
		unresolved = []UnresolvedCard{}
	}

	return &Report{
		DeckID:            in.DeckID,
		Name:              in.Name,
		Format:            in.Format,
		Stats:             stats,
		ManaCurve:         curve,
		ColorDistribution: ComputeColorDistribution(in.Main),
		Synergies:         DetectSynergies(in.Main, patterns),
		Suggestions:       GenerateSuggestions(stats, curve),
		MetaPredictions:   PredictMeta(stats, curve),
		UnresolvedCards:   unresolved,
	}
}
