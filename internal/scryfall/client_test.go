package scryfall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(ClientOptions{
		BaseURL:   url,
		RateLimit: 1000,
		Backoff:   time.Millisecond,
	})
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientOptions{})

	if client.httpClient == nil {
		t.Error("httpClient is nil")
	}
	if client.rateLimiter == nil {
		t.Error("rateLimiter is nil")
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("expected base URL %q, got %q", DefaultBaseURL, client.baseURL)
	}
	if client.userAgent == "" {
		t.Error("userAgent is empty")
	}
	if client.maxRetries != defaultRetries {
		t.Errorf("expected %d retries, got %d", defaultRetries, client.maxRetries)
	}
}

func TestClient_SearchCards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cards/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "format:standard" {
			t.Errorf("unexpected query: %s", q.Get("q"))
		}
		if q.Get("unique") != "cards" {
			t.Errorf("expected unique=cards, got %q", q.Get("unique"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"object":"list","total_cards":1,"has_more":false,"data":[
			{"id":"c1","name":"Shock","cmc":1,"type_line":"Instant","set":"m21","set_type":"core",
			 "color_identity":["R"],"legalities":{"standard":"legal"}}
		]}`)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).SearchCards(context.Background(), "format:standard", 1)
	if err != nil {
		t.Fatalf("SearchCards failed: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].Name != "Shock" {
		t.Fatalf("unexpected result: %+v", result.Data)
	}
	if result.Data[0].Legalities["standard"] != "legal" {
		t.Errorf("expected standard legality, got %v", result.Data[0].Legalities)
	}
}

func TestClient_SearchAll_FollowsNextPage(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprintf(w, `{"has_more":true,"next_page":"http://%s/cards/search?page=2&q=x","data":[{"id":"a","name":"A"}]}`, r.Host)
		case "2":
			fmt.Fprintf(w, `{"has_more":true,"next_page":"http://%s/cards/search?page=3&q=x","data":[{"id":"b","name":"B"}]}`, r.Host)
		default:
			fmt.Fprint(w, `{"has_more":false,"data":[{"id":"c","name":"C"}]}`)
		}
	}))
	defer server.Close()

	tests := []struct {
		name      string
		maxPages  int
		wantPages int
		wantIDs   int
	}{
		{"all pages", 0, 3, 3},
		{"page limit", 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			pages, err := newTestClient(server.URL).SearchAll(context.Background(), "x", tt.maxPages, func(cards []Card) error {
				for _, c := range cards {
					ids = append(ids, c.ID)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("SearchAll failed: %v", err)
			}
			if pages != tt.wantPages {
				t.Errorf("expected %d pages, got %d", tt.wantPages, pages)
			}
			if len(ids) != tt.wantIDs {
				t.Errorf("expected %d cards, got %v", tt.wantIDs, ids)
			}
		})
	}
}

func TestClient_SearchAll_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"object":"error","code":"not_found","status":404,"details":"Your query didn't match any cards."}`)
	}))
	defer server.Close()

	called := false
	pages, err := newTestClient(server.URL).SearchAll(context.Background(), "x", 0, func([]Card) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pages != 0 || called {
		t.Errorf("expected no pages, got %d (called=%v)", pages, called)
	}
}

func TestClient_RetriesRateLimit(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"has_more":false,"data":[]}`)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).SearchCards(context.Background(), "x", 1); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := requests.Load(); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestClient_RetriesExhausted(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.SearchCards(context.Background(), "x", 1); err == nil {
		t.Fatal("expected error")
	}
	if got := int(requests.Load()); got != client.maxRetries+1 {
		t.Errorf("expected %d requests, got %d", client.maxRetries+1, got)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"object":"error","code":"bad_request","status":400,"details":"invalid syntax"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchCards(context.Background(), "((", 1)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Details != "invalid syntax" {
		t.Errorf("expected APIError, got %v", err)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientOptions{BaseURL: server.URL, RateLimit: 1000, Backoff: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.SearchCards(ctx, "x", 1); err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestIsNotFound(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &NotFoundError{URL: "x"})
	if !IsNotFound(err) {
		t.Error("expected wrapped NotFoundError to be detected")
	}
	if IsNotFound(fmt.Errorf("other")) {
		t.Error("unexpected match")
	}
}
