package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/deck-analyzer/internal/api/handlers"
	"github.com/ramonehamilton/deck-analyzer/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.catalog != nil {
			cardHandler := handlers.NewCardHandler(s.catalog)
			r.Route("/cards", func(r chi.Router) {
				r.Get("/", cardHandler.ListCards)
				r.Get("/search", cardHandler.SearchCards)
				r.Get("/sets", cardHandler.GetSets)
				r.Get("/id/{cardID}", cardHandler.GetCardByID)
				r.Get("/{name}", cardHandler.GetCardByName)
			})
		}

		if s.decks != nil {
			deckHandler := handlers.NewDeckHandler(s.decks, s.logger)
			r.Route("/decks", func(r chi.Router) {
				r.Get("/", deckHandler.GetDecks)
				r.Post("/", deckHandler.CreateDeck)
				r.Get("/{deckID}", deckHandler.GetDeck)
				r.Put("/{deckID}", deckHandler.UpdateDeck)
				r.Delete("/{deckID}", deckHandler.DeleteDeck)
				r.Get("/{deckID}/analyze", deckHandler.AnalyzeDeck)
				r.Get("/{deckID}/analysis/chart", deckHandler.GetAnalysisChart)
			})
			r.Post("/analyze", deckHandler.AnalyzeDeckList)
		}
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "deck-analyzer-api",
	})
}
