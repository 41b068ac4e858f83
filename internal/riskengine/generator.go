package riskengine

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geo"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/zones"
)

// bowOffsetRatio controls how far bow waypoints deviate from the direct
// path, relative to its length.
const bowOffsetRatio = 0.3

// minCandidates is the target candidate count before the provider
// alternatives fallback kicks in.
const minCandidates = 2

// generator builds scored route candidates through the route provider.
type generator struct {
	provider routing.Provider
	logger   zerolog.Logger
}

// branch describes one outbound provider request.
type branch struct {
	source    Source
	waypoints []routing.Coordinate
}

// generate produces up to three bow candidates plus a provider-alternatives
// fallback. Branch requests are independent reads and run concurrently, but
// results land in fixed slots so candidates are always assembled in the
// canonical order direct, left, right, fallback: ordering decides score
// tie-breaks later. A failed branch is simply absent; only the candidates
// that succeeded are returned.
func (g *generator) generate(ctx context.Context, start, end geo.Point, zoneList []zones.Zone, rctx Context) []Candidate {
	origin := routing.Coordinate{Lat: start.Lat, Lng: start.Lng}
	dest := routing.Coordinate{Lat: end.Lat, Lng: end.Lng}

	leftWP := geo.OffsetWaypoint(start, end, bowOffsetRatio, geo.SideLeft)
	rightWP := geo.OffsetWaypoint(start, end, bowOffsetRatio, geo.SideRight)

	branches := []branch{
		{source: SourceDirect},
		{source: SourceLeftBow, waypoints: []routing.Coordinate{{Lat: leftWP.Lat, Lng: leftWP.Lng}}},
		{source: SourceRightBow, waypoints: []routing.Coordinate{{Lat: rightWP.Lat, Lng: rightWP.Lng}}},
	}

	slots := make([]*routing.RawRoute, len(branches))
	var wg sync.WaitGroup
	for i, b := range branches {
		wg.Add(1)
		go func(i int, b branch) {
			defer wg.Done()
			resp, err := g.provider.Route(ctx, routing.RouteRequest{
				Origin:      origin,
				Destination: dest,
				Waypoints:   b.waypoints,
				Mode:        rctx.Mode,
			})
			if err != nil {
				g.logger.Debug().
					Err(err).
					Str("branch", string(b.source)).
					Msg("branch produced no candidate")
				return
			}
			if len(resp.Routes) == 0 {
				return
			}
			route := resp.Routes[0]
			slots[i] = &route
		}(i, b)
	}
	wg.Wait()

	var candidates []Candidate
	for i, raw := range slots {
		if raw == nil {
			continue
		}
		candidates = append(candidates, g.newCandidate(branches[i].source, *raw, zoneList, rctx))
	}

	candidates = Dedupe(candidates)

	// Bow routing can collapse onto the direct path in dense road networks.
	// Ask the provider for its native alternatives as a last resort.
	if len(candidates) < minCandidates {
		candidates = g.appendAlternatives(ctx, origin, dest, candidates, zoneList, rctx)
	}

	return candidates
}

// appendAlternatives requests the provider's alternatives mode and appends
// routes beyond the first until the minimum candidate count is reached.
func (g *generator) appendAlternatives(ctx context.Context, origin, dest routing.Coordinate, candidates []Candidate, zoneList []zones.Zone, rctx Context) []Candidate {
	resp, err := g.provider.Route(ctx, routing.RouteRequest{
		Origin:       origin,
		Destination:  dest,
		Mode:         rctx.Mode,
		Alternatives: true,
	})
	if err != nil {
		g.logger.Debug().Err(err).Msg("alternatives fallback produced no candidate")
		return candidates
	}

	// The first alternative duplicates the direct route.
	for _, raw := range resp.Routes[min(1, len(resp.Routes)):] {
		candidates = append(candidates, g.newCandidate(SourceProviderAlt, raw, zoneList, rctx))
		if len(candidates) >= minCandidates {
			break
		}
	}

	return candidates
}

// newCandidate decodes provider geometry into (lat, lng) order and scores
// the candidate.
func (g *generator) newCandidate(source Source, raw routing.RawRoute, zoneList []zones.Zone, rctx Context) Candidate {
	coords := decodeGeometry(raw.Geometry)
	riskScore, reasons := score(coords, zoneList, rctx)

	return Candidate{
		Source:          source,
		Raw:             raw,
		Coords:          coords,
		Score:           riskScore,
		Reasons:         reasons,
		DistanceMeters:  raw.DistanceMeters,
		DurationSeconds: raw.DurationSeconds,
	}
}
