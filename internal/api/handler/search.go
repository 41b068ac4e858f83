package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/geocode"
)

// defaultSearchLimit caps place search results when the client does not ask
// for a specific count.
const defaultSearchLimit = 5

// PlaceSearcher performs free-text place search.
type PlaceSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]geocode.Place, error)
}

// SearchHandler handles the place search endpoint.
type SearchHandler struct {
	searcher PlaceSearcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher PlaceSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchPlaces handles GET /v1/search?q=... - free-text place search.
func (h *SearchHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.BadRequest(w, r, "missing search query", []models.FieldError{
			{Field: "q", Message: "q is required", Code: "required"},
		})
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			response.BadRequest(w, r, "invalid limit", []models.FieldError{
				{Field: "limit", Message: "limit must be between 1 and 20", Code: "invalid"},
			})
			return
		}
		limit = parsed
	}

	places, err := h.searcher.Search(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			response.JSON(w, r, http.StatusOK, models.SearchResponse{Query: query, Places: []geocode.Place{}})
			return
		}
		response.ServiceUnavailable(w, r, "place search is temporarily unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.SearchResponse{Query: query, Places: places})
}
