package analysis

// Matchup is the estimated outcome against an opposing archetype.
type Matchup string

const (
	Favored   Matchup = "favored"
	Even      Matchup = "even"
	Unfavored Matchup = "unfavored"
)

// Tier is a coarse overall strength grade.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// MetaPrediction is a static matchup estimate. It does not consult any live
// metagame data.
type MetaPrediction struct {
	VsAggro     Matchup `json:"vsAggro"`
	VsControl   Matchup `json:"vsControl"`
	VsMidrange  Matchup `json:"vsMidrange"`
	VsCombo     Matchup `json:"vsCombo"`
	OverallTier Tier    `json:"overallTier"`
}

// PredictMeta classifies the deck as aggro, control or midrange from its
// average mana value and composition and derives matchups and a tier.
func PredictMeta(stats Stats, curve ManaCurve) MetaPrediction {
	hasEarlyGame := curve.One+curve.Two >= 12
	hasInteraction := stats.Instants+stats.Sorceries >= 6
	hasGoodCurve := curve.Two >= 8 && curve.Three >= 6
	hasManaBase := stats.Lands >= 23 && stats.Lands <= 26

	p := MetaPrediction{VsMidrange: Even, VsCombo: Even}

	switch {
	case stats.AverageCMC < 2.5 && stats.Creatures >= 16:
		p.VsAggro = Even
		p.VsControl = Even
		if hasEarlyGame {
			p.VsControl = Favored
		}
	case stats.AverageCMC > 3.5 && hasInteraction:
		p.VsAggro = Even
		if hasEarlyGame {
			p.VsAggro = Favored
		}
		p.VsControl = Even
	default:
		p.VsAggro = Unfavored
		if hasInteraction {
			p.VsAggro = Even
		}
		p.VsControl = Even
	}

	switch {
	case hasGoodCurve && hasManaBase && hasInteraction && stats.TotalCards >= minimumDeckSize:
		p.OverallTier = TierA
	case hasManaBase && stats.TotalCards >= minimumDeckSize:
		p.OverallTier = TierB
	default:
		p.OverallTier = TierC
	}

	return p
}
