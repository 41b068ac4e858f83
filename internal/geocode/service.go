package geocode

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geo"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Providers are tried in order until one succeeds.
	Providers []Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Timeout bounds a single resolve or search call
	// (default: 10 seconds).
	Timeout time.Duration
}

// Service resolves location queries through a provider fallback chain.
type Service struct {
	providers []Provider
	logger    zerolog.Logger
	timeout   time.Duration
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Service{
		providers: cfg.Providers,
		logger:    cfg.Logger,
		timeout:   timeout,
	}
}

// Resolve turns a location query into a coordinate. A query shaped like
// "lat,lng" with both parts in range is parsed directly without touching any
// provider; a malformed or out-of-range literal is treated as a place name
// and geocoded like any other text.
func (s *Service) Resolve(ctx context.Context, query string) (geo.Point, error) {
	if p, ok := parseLatLng(query); ok {
		return p, nil
	}

	places, err := s.Search(ctx, query, 1)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: places[0].Lat, Lng: places[0].Lng}, nil
}

// Search queries providers in order and returns the first successful result
// set. Provider errors are aggregated so callers can inspect any of them with
// errors.Is.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var errs []error
	for _, p := range s.providers {
		places, err := p.Search(ctx, query, limit)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("provider", p.Name()).
				Msg("geocoding provider failed, trying next")
			errs = append(errs, err)
			continue
		}

		// A provider can succeed and still have nothing for the query.
		if len(places) == 0 {
			s.logger.Debug().
				Str("provider", p.Name()).
				Msg("geocoding returned no results, trying next")
			continue
		}

		s.logger.Debug().
			Str("provider", p.Name()).
			Int("results", len(places)).
			Msg("geocoding succeeded")
		return places, nil
	}

	if len(errs) == 0 {
		if len(s.providers) == 0 {
			return nil, ErrProviderUnavailable
		}
		return nil, ErrNotFound
	}
	return nil, errors.Join(errs...)
}

// parseLatLng recognizes "lat,lng" literals. Both parts must parse as floats
// and sit within coordinate range.
func parseLatLng(query string) (geo.Point, bool) {
	parts := strings.Split(query, ",")
	if len(parts) != 2 {
		return geo.Point{}, false
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return geo.Point{}, false
	}

	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return geo.Point{}, false
	}
	return p, true
}
