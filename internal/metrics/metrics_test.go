package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.ObserveRequest("/api/v1/decks/{deckID}", http.MethodGet, 200, 10*time.Millisecond)
	m.ObserveRequest("/api/v1/decks/{deckID}", http.MethodGet, 200, 20*time.Millisecond)
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.CardsImported(150)
	m.CardsImported(-1)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/decks/{deckID}", "GET", "200")); got != 2 {
		t.Errorf("expected 2 requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.cache.WithLabelValues("miss")); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
	if got := testutil.ToFloat64(m.importedCards); got != 150 {
		t.Errorf("expected 150 imported cards, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.CacheLookup(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `deckanalyzer_analysis_cache_total{result="hit"} 1`) {
		t.Errorf("cache counter missing from exposition:\n%s", rec.Body.String())
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", "GET", 200, time.Millisecond)
	m.CacheLookup(true)
	m.ObserveAnalysis(time.Millisecond)
	m.CardsImported(1)
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}
