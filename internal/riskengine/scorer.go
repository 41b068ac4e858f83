package riskengine

import (
	"github.com/saferoute/saferoute/internal/geo"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/zones"
)

// sampleStride controls how densely route geometry is checked against zones.
// Every strideth point is tested, trading accuracy for cost. Tunable, not a
// behavioral guarantee.
const sampleStride = 20

// baseScore is the starting risk for any route.
const baseScore = 15

// zoneHit records a matched zone and the reason it contributes.
type zoneHit struct {
	zone   zones.Zone
	reason string
}

// matchZones samples the route coordinates at a fixed stride and returns the
// zones whose radius contains at least one sampled point. A zone contributes
// at most one hit regardless of how many sampled points fall inside it.
// Zones with a degenerate radius are skipped, never fatal.
func matchZones(coords []geo.Point, zoneList []zones.Zone) []zoneHit {
	var hits []zoneHit

	for _, z := range zoneList {
		if z.RadiusKm <= 0 {
			continue
		}
		center := zoneCenter(z)
		if !center.Valid() {
			continue
		}

		for i := 0; i < len(coords); i += sampleStride {
			if geo.Haversine(coords[i], center) < z.RadiusKm {
				reason := "Near " + z.Name
				if z.Reason != "" {
					reason += " (" + z.Reason + ")"
				}
				hits = append(hits, zoneHit{zone: z, reason: reason})
				break
			}
		}
	}

	return hits
}

// score computes the additive risk heuristic for a candidate's coordinates.
// The result is clamped to [minScore, maxScore]; reasons are de-duplicated
// by exact string.
func score(coords []geo.Point, zoneList []zones.Zone, rctx Context) (int, []string) {
	risk := baseScore
	var reasons []string
	seen := make(map[string]struct{})

	addReason := func(r string) {
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		reasons = append(reasons, r)
	}

	night := rctx.TimeOfDay == Night

	switch rctx.Mode {
	case routing.ModeWalking:
		risk += 15
		if night {
			risk += 20
			addReason("High vulnerability (Walking at Night)")
		}
	case routing.ModeCycling:
		risk += 10
		if night {
			addReason("Low visibility for cyclists")
		}
	case routing.ModeTransit:
		risk += 5
		if night {
			addReason("Wait times at stops may be risky")
		}
	}

	for _, hit := range matchZones(coords, zoneList) {
		addReason(hit.reason)

		if hit.zone.Level == zones.LevelHigh {
			risk += 40
			if night {
				risk += 20
				addReason("Night-time Danger Zone")
			}
		} else {
			risk += 20
		}
	}

	if night {
		risk += 10
	}
	if rctx.CrowdDensity == CrowdLow {
		risk += 10
	}

	if risk < minScore {
		risk = minScore
	}
	if risk > maxScore {
		risk = maxScore
	}

	return risk, reasons
}
