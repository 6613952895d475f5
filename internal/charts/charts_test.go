package charts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ramonehamilton/deck-analyzer/internal/analysis"
)

func TestCurvePoints(t *testing.T) {
	points := CurvePoints(analysis.ManaCurve{One: 8, Two: 12, SixPlus: 2})

	if len(points) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(points))
	}
	if points[1].Label != "1" || points[1].Value != 8 {
		t.Errorf("unexpected bucket 1: %+v", points[1])
	}
	if points[6].Label != "6+" || points[6].Value != 2 {
		t.Errorf("unexpected bucket 6+: %+v", points[6])
	}
}

func TestColorPoints_SkipsEmpty(t *testing.T) {
	points := ColorPoints(analysis.ColorDistribution{R: 20, G: 4})

	if len(points) != 2 {
		t.Fatalf("expected 2 colors, got %d", len(points))
	}
	if points[0].Label != "R" || points[1].Label != "G" {
		t.Errorf("unexpected order: %+v", points)
	}
}

func TestRenderAnalysis(t *testing.T) {
	report := &analysis.Report{
		Name:              "Mono Red",
		ManaCurve:         analysis.ManaCurve{One: 12, Two: 10, Three: 8},
		ColorDistribution: analysis.ColorDistribution{R: 36},
	}

	var buf bytes.Buffer
	if err := RenderAnalysis(&buf, report, DefaultChartConfig()); err != nil {
		t.Fatalf("RenderAnalysis failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Mana Curve", "Color Distribution", "Mono Red"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderAnalysis_NilReport(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderAnalysis(&buf, nil, DefaultChartConfig()); err == nil {
		t.Error("expected error for nil report")
	}
}
