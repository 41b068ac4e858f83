package riskengine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geo"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/zones"
)

// ZoneSource supplies the hazard zone snapshot for a request.
type ZoneSource interface {
	ActiveZones(ctx context.Context) ([]zones.Zone, error)
}

// ServiceConfig holds configuration for the risk engine service.
type ServiceConfig struct {
	// Provider is the route provider (typically a fallback chain).
	Provider routing.Provider

	// Zones supplies hazard zones. Optional; scoring proceeds without zone
	// contributions when nil or failing.
	Zones ZoneSource

	// Logger for engine operations.
	Logger zerolog.Logger

	// RequestTimeout bounds the whole candidate generation phase
	// (default: 30 seconds).
	RequestTimeout time.Duration
}

// Service is the route-risk scoring engine.
type Service struct {
	provider       routing.Provider
	zoneSource     ZoneSource
	logger         zerolog.Logger
	requestTimeout time.Duration
}

// NewService creates a new risk engine service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		provider:       cfg.Provider,
		zoneSource:     cfg.Zones,
		logger:         cfg.Logger,
		requestTimeout: timeout,
	}
}

// ComputeRoutes generates, scores, deduplicates and ranks route candidates
// between origin and destination. It never returns an error: invalid
// endpoints or total provider failure yield an empty list, and all
// per-branch and per-zone failures are absorbed internally.
func (s *Service) ComputeRoutes(ctx context.Context, origin, destination geo.Point, rctx Context) []RouteResult {
	if !origin.Valid() || !destination.Valid() {
		s.logger.Warn().
			Float64("origin_lat", origin.Lat).
			Float64("origin_lng", origin.Lng).
			Float64("dest_lat", destination.Lat).
			Float64("dest_lng", destination.Lng).
			Msg("rejecting out-of-range endpoints")
		return []RouteResult{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	// One immutable snapshot per request; scoring never observes zone churn.
	var zoneList []zones.Zone
	if s.zoneSource != nil {
		snapshot, err := s.zoneSource.ActiveZones(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("zone snapshot unavailable, scoring without zones")
		} else {
			zoneList = snapshot
		}
	}

	gen := &generator{provider: s.provider, logger: s.logger}
	candidates := gen.generate(ctx, origin, destination, zoneList, rctx)
	if len(candidates) == 0 {
		s.logger.Info().
			Str("mode", string(rctx.Mode)).
			Msg("no route candidates produced")
		return []RouteResult{}
	}

	results := BuildResults(Rank(candidates))

	s.logger.Info().
		Int("candidates", len(candidates)).
		Int("results", len(results)).
		Str("mode", string(rctx.Mode)).
		Msg("computed route options")

	return results
}
