package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/farmaciavallenar/backend/internal/application/services"
	"github.com/farmaciavallenar/backend/internal/infrastructure/observability"
)

// SearchHandler handles substitution search HTTP requests
type SearchHandler struct {
	searchService *services.SearchService
	metrics       *observability.Metrics
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, metrics *observability.Metrics) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		metrics:       metrics,
	}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	result, err := h.searchService.Search(r.Context(), query)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if h.metrics != nil {
		observability.RecordSearch(r.Context(), h.metrics, result.ActiveIngredient, len(result.Candidates))
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
