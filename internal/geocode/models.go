// Package geocode resolves free-text place queries to coordinates. A query
// that already looks like a "lat,lng" literal is parsed directly; everything
// else goes through a geocoding provider chain.
package geocode

import (
	"context"
	"errors"
)

// Sentinel errors for geocoding operations.
var (
	// ErrNotFound indicates the query matched no known place.
	ErrNotFound = errors.New("no matching place found")
	// ErrProviderUnavailable indicates the geocoding provider is down, rate
	// limited, or returned a malformed response.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Provider is a geocoding backend behind a uniform interface.
type Provider interface {
	// Search returns up to limit places matching the query, best match first.
	Search(ctx context.Context, query string, limit int) ([]Place, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Place is a resolved location.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Error provides detailed error information from a geocoding provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying sentinel error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
