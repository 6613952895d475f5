// Package scryfall imports the card catalog from the Scryfall API or from a
// Scryfall bulk data file.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	DefaultRateLimit = 10 // requests per second
	requestTimeout   = 30 * time.Second
	defaultRetries   = 3
	initialBackoff   = 1 * time.Second
	maxBackoff       = 16 * time.Second
)

// ClientOptions configures a Client. Zero values select the defaults.
type ClientOptions struct {
	BaseURL    string
	RateLimit  float64
	UserAgent  string
	MaxRetries int
	HTTPClient *http.Client

	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
	maxRetries  int
	backoff     time.Duration
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: requestTimeout}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = "DeckAnalyzer/1.0"
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultRetries
	}
	if c.backoff <= 0 {
		c.backoff = initialBackoff
	}

	limit := opts.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(limit), 1)

	return c
}

// SearchCards fetches one page of a full-text search, one printing per card.
func (c *Client) SearchCards(ctx context.Context, query string, page int) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("unique", "cards")
	params.Set("include_extras", "false")
	params.Set("include_variations", "false")
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	return c.search(ctx, c.baseURL+"/cards/search?"+params.Encode(), query)
}

// SearchAll walks the pages of a search, calling fn with each page of cards,
// until the results are exhausted or maxPages pages were read. maxPages <= 0
// means no limit. A search with no matches is not an error.
func (c *Client) SearchAll(ctx context.Context, query string, maxPages int, fn func([]Card) error) (int, error) {
	result, err := c.SearchCards(ctx, query, 1)
	if IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	pages := 0
	for {
		pages++
		if err := fn(result.Data); err != nil {
			return pages, err
		}
		if !result.HasMore || result.NextPage == "" || (maxPages > 0 && pages >= maxPages) {
			return pages, nil
		}

		result, err = c.search(ctx, result.NextPage, query)
		if err != nil {
			return pages, err
		}
	}
}

func (c *Client) search(ctx context.Context, target, query string) (*SearchResult, error) {
	var result SearchResult
	if err := c.doRequest(ctx, target, &result); err != nil {
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
	}
	return &result, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, target string, result interface{}) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, err := c.attempt(ctx, target, result)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err

		if ra, ok := err.(*rateLimitedError); ok && ra.after > 0 {
			backoff = ra.after
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// rateLimitedError is returned for HTTP 429 responses.
type rateLimitedError struct {
	after time.Duration
}

func (e *rateLimitedError) Error() string {
	return "rate limited (HTTP 429)"
}

// attempt performs a single request and reports whether a failure is worth
// retrying.
func (c *Client) attempt(ctx context.Context, target string, result interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		var after time.Duration
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			after = time.Duration(secs) * time.Second
		}
		return true, &rateLimitedError{after: after}

	case resp.StatusCode == http.StatusNotFound:
		return false, &NotFoundError{URL: target}

	case resp.StatusCode >= http.StatusInternalServerError:
		return true, fmt.Errorf("API request failed with status %d", resp.StatusCode)

	default:
		body, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return false, &apiErr
		}

		return false, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
