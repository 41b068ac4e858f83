package models

import (
	"github.com/saferoute/saferoute/internal/geocode"
)

// SearchResponse is the response body for GET /v1/search.
type SearchResponse struct {
	Query  string          `json:"query"`
	Places []geocode.Place `json:"places"`
}
