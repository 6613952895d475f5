package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/deck-analyzer/internal/api/response"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/repository"
)

// Page size bounds for catalog queries.
const (
	DefaultCardLimit = 50
	MaxCardLimit     = 100
	DefaultFormat    = "standard"
)

// CardCatalog is the read side of the card catalog used by CardHandler.
type CardCatalog interface {
	Find(ctx context.Context, filter repository.CardFilter, limit, offset int) (int, []*models.Card, error)
	GetByName(ctx context.Context, name string) (*models.Card, error)
	GetByID(ctx context.Context, id string) (*models.Card, error)
	Sets(ctx context.Context, format string) ([]models.SetInfo, error)
}

// CardHandler handles card catalog API requests.
type CardHandler struct {
	catalog CardCatalog
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(catalog CardCatalog) *CardHandler {
	return &CardHandler{catalog: catalog}
}

// ListCards returns a page of cards matching the structured filters. Free-text
// and exact cmc parameters are only honoured by SearchCards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, false)
}

// SearchCards returns a page of cards matching q and the structured filters.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	h.find(w, r, true)
}

func (h *CardHandler) find(w http.ResponseWriter, r *http.Request, search bool) {
	q := r.URL.Query()

	filter, err := parseCardFilter(q, search)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	limit, offset := parsePage(q, DefaultCardLimit, MaxCardLimit)

	total, cards, err := h.catalog.Find(r.Context(), filter, limit, offset)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if cards == nil {
		cards = []*models.Card{}
	}
	response.Paginated(w, cards, total, limit, offset)
}

// GetCardByName returns the newest printing of a card by name.
func (h *CardHandler) GetCardByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		response.BadRequest(w, errors.New("card name is required"))
		return
	}

	card, err := h.catalog.GetByName(r.Context(), name)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, card)
}

// GetCardByID returns a card by its Scryfall id.
func (h *CardHandler) GetCardByID(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}

	card, err := h.catalog.GetByID(r.Context(), cardID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, card)
}

// GetSets returns the sets that have cards legal in a format.
func (h *CardHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	format := legalIn(r.URL.Query())
	if format == "" {
		format = DefaultFormat
	}

	sets, err := h.catalog.Sets(r.Context(), format)
	if err != nil {
		response.FromError(w, err)
		return
	}

	if sets == nil {
		sets = []models.SetInfo{}
	}
	response.Success(w, sets)
}

func parseCardFilter(q url.Values, search bool) (repository.CardFilter, error) {
	get := func(key string) string {
		if v := q[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	filter := repository.CardFilter{
		Colors:  parseColors(get("colors")),
		Type:    get("type"),
		Rarity:  strings.ToLower(get("rarity")),
		Set:     strings.ToLower(get("set")),
		LegalIn: legalIn(q),
	}

	var err error
	if search {
		filter.Text = get("q")
		if filter.CMC, err = parseFloat("cmc", get("cmc")); err != nil {
			return filter, err
		}
	}
	if filter.CMCMin, err = parseFloat("cmc_min", get("cmc_min")); err != nil {
		return filter, err
	}
	if filter.CMCMax, err = parseFloat("cmc_max", get("cmc_max")); err != nil {
		return filter, err
	}

	return filter, nil
}

// legalIn returns the legality format of a query. An absent parameter means
// standard; an explicitly empty one disables the filter.
func legalIn(q url.Values) string {
	v, ok := q["legal_in"]
	if !ok || len(v) == 0 {
		return DefaultFormat
	}
	return strings.ToLower(strings.TrimSpace(v[0]))
}

func parseColors(raw string) []string {
	if raw == "" {
		return nil
	}

	var colors []string
	for _, c := range strings.Split(raw, ",") {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}

func parseFloat(name, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &v, nil
}

// parsePage reads limit and offset. A missing, non-numeric or non-positive
// limit uses def and larger values are clamped to maxLimit. A negative or
// non-numeric offset becomes 0.
func parsePage(q url.Values, def, maxLimit int) (limit, offset int) {
	limit = def
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		limit = min(n, maxLimit)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}
