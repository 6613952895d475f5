package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ramonehamilton/deck-analyzer/internal/analysis"
	"github.com/ramonehamilton/deck-analyzer/internal/api/response"
	"github.com/ramonehamilton/deck-analyzer/internal/charts"
	"github.com/ramonehamilton/deck-analyzer/internal/decks"
	"github.com/ramonehamilton/deck-analyzer/internal/storage/models"
)

// Page size bounds for deck listings.
const (
	DefaultDeckLimit = 20
	MaxDeckLimit     = 100
)

// DeckService is the deck management and analysis surface used by DeckHandler.
type DeckService interface {
	Create(ctx context.Context, in decks.CreateInput) (*models.Deck, error)
	Get(ctx context.Context, id string) (*models.Deck, error)
	List(ctx context.Context, format string, limit, offset int) (int, []*models.DeckSummary, error)
	Update(ctx context.Context, id string, in decks.UpdateInput) (*models.Deck, error)
	Delete(ctx context.Context, id string) error
	Analyze(ctx context.Context, id string) (*analysis.Report, error)
	AnalyzeList(ctx context.Context, in decks.CreateInput) (*analysis.Report, error)
}

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	service DeckService
	charts  charts.ChartConfig
	logger  *zap.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(service DeckService, logger *zap.Logger) *DeckHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeckHandler{
		service: service,
		charts:  charts.DefaultChartConfig(),
		logger:  logger,
	}
}

// GetDecks returns a page of deck summaries, optionally filtered by format.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, offset := parsePage(q, DefaultDeckLimit, MaxDeckLimit)

	total, list, err := h.service.List(r.Context(), q.Get("format"), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if list == nil {
		list = []*models.DeckSummary{}
	}
	response.Paginated(w, list, total, limit, offset)
}

// CreateDeck creates a new deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req decks.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	deck, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, deck)
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.service.Get(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, deck)
}

// UpdateDeck updates deck metadata and, when cards are supplied, replaces the
// card lists.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var req decks.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	deck, err := h.service.Update(r.Context(), chi.URLParam(r, "deckID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, deck)
}

// DeleteDeck deletes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// AnalyzeDeck returns the analysis report of a stored deck.
func (h *DeckHandler) AnalyzeDeck(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Analyze(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, report)
}

// AnalyzeDeckList analyzes a deck list without storing it.
func (h *DeckHandler) AnalyzeDeckList(w http.ResponseWriter, r *http.Request) {
	var req decks.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	report, err := h.service.AnalyzeList(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Success(w, report)
}

// GetAnalysisChart renders the analysis of a stored deck as an HTML page.
func (h *DeckHandler) GetAnalysisChart(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	report, err := h.service.Analyze(r.Context(), deckID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderAnalysis(&buf, report, h.charts); err != nil {
		h.logger.Error("failed to render analysis chart", zap.String("deckID", deckID), zap.Error(err))
		response.InternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *DeckHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if response.FromError(w, err) == http.StatusInternalServerError {
		h.logger.Error("deck request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}
