package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

func TestAnalyze_EmptyDeck(t *testing.T) {
	report := Analyze(Input{DeckID: "d1", Name: "Empty", Format: "standard"}, []*models.SynergyPattern{elves})

	if report.Stats.NonLandCards != 0 || report.Stats.AverageCMC != 0 {
		t.Errorf("expected zero stats, got %+v", report.Stats)
	}
	if report.ManaCurve.Total() != 0 {
		t.Errorf("expected empty curve, got %+v", report.ManaCurve)
	}
	if len(report.Synergies) != 0 {
		t.Errorf("expected no synergies, got %v", report.Synergies)
	}

	want := []Suggestion{{SuggestionComposition, PriorityHigh, "Deck has 0 cards. Standard requires minimum 60."}}
	if diff := cmp.Diff(want, report.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if report.MetaPredictions.OverallTier != TierC {
		t.Errorf("expected tier C, got %s", report.MetaPredictions.OverallTier)
	}
}

func TestAnalyze_SixtyCardDeck(t *testing.T) {
	main := []models.ResolvedCard{
		rc("Mountain", "Basic Land — Mountain", 0, 24),
		rc("Bear A", "Creature — Bear", 2, 4, "R"),
		rc("Bear B", "Creature — Bear", 2, 4, "R"),
		rc("Bear C", "Creature — Bear", 2, 4, "R"),
		rc("Bear D", "Creature — Bear", 2, 4, "R"),
		rc("Bear E", "Creature — Bear", 2, 4, "R"),
		rc("Bear F", "Creature — Bear", 2, 4, "R"),
		rc("Bear G", "Creature — Bear", 2, 4, "R"),
		rc("Bear H", "Creature — Bear", 2, 4, "R"),
		rc("Bear I", "Creature — Bear", 2, 4, "R"),
	}

	report := Analyze(Input{DeckID: "d1", Name: "Bears", Format: "standard", Main: main}, nil)

	if report.Stats.TotalCards != 60 || report.Stats.NonLandCards != 36 {
		t.Fatalf("unexpected counts: %+v", report.Stats)
	}
	if report.Stats.AverageCMC != 2.0 {
		t.Errorf("expected average 2.0, got %v", report.Stats.AverageCMC)
	}

	want := []Suggestion{{SuggestionLand, PriorityMedium, "Deck has 24 lands which may be high for average CMC of 2"}}
	if diff := cmp.Diff(want, report.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	main := []models.ResolvedCard{
		rc("Forest", "Basic Land — Forest", 0, 17, "G"),
		rc("Llanowar Elves", "Creature — Elf Druid", 1, 4, "G"),
		withText(rc("Healer", "Creature — Elf Cleric", 2, 4, "W", "G"), "you gain life"),
		withText(rc("Charm", "Instant", 2, 3, "W"), "You gain 3 life."),
	}
	in := Input{DeckID: "d1", Name: "Elves", Format: "standard", Main: main}
	patterns := []*models.SynergyPattern{lifegain, elves, renown}

	first := Analyze(in, patterns)
	second := Analyze(in, patterns)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reports differ (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("serialized reports differ")
	}
}

func TestReport_JSONShape(t *testing.T) {
	report := Analyze(Input{DeckID: "d1", Name: "Empty", Format: "standard"}, nil)

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	got := string(raw)

	for _, want := range []string{
		`"deckId":"d1"`,
		`"manaCurve":{"0":0,"1":0,"2":0,"3":0,"4":0,"5":0,"6+":0}`,
		`"colorDistribution":{"W":0,"U":0,"B":0,"R":0,"G":0,"C":0}`,
		`"colorIdentity":[]`,
		`"averageCmc":0`,
		`"synergies":[]`,
		`"unresolvedCards":[]`,
		`"metaPredictions":{"vsAggro":"unfavored","vsControl":"even","vsMidrange":"even","vsCombo":"even","overallTier":"C"}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report JSON missing %s\n%s", want, got)
		}
	}
}

func TestAnalyze_UnresolvedPassThrough(t *testing.T) {
	unresolved := []UnresolvedCard{{Name: "Lightning Bolt", Board: models.BoardMain, Quantity: 4, Suggestions: []string{}}}
	report := Analyze(Input{Unresolved: unresolved}, nil)

	if diff := cmp.Diff(unresolved, report.UnresolvedCards); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
	if report.Stats.TotalCards != 0 {
		t.Error("unresolved cards must not be counted")
	}
}
