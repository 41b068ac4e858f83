package riskengine

import (
	"fmt"
	"math"
	"sort"
)

// dedupTolerance is the relative distance difference below which two
// candidates are treated as duplicates. Intentionally distance-based, not
// geometry-based: two paths of near-identical length count as one.
const dedupTolerance = 0.01

// Dedupe filters near-duplicate candidates. Iterating in generation order, a
// candidate is discarded when an already-accepted candidate's total distance
// is within the tolerance of its own.
func Dedupe(candidates []Candidate) []Candidate {
	accepted := make([]Candidate, 0, len(candidates))

	for _, cand := range candidates {
		unique := true
		for _, existing := range accepted {
			diff := math.Abs(existing.DistanceMeters - cand.DistanceMeters)
			if diff < existing.DistanceMeters*dedupTolerance {
				unique = false
				break
			}
		}
		if unique {
			accepted = append(accepted, cand)
		}
	}

	return accepted
}

// Rank sorts candidates ascending by risk score. The sort is stable, so
// score ties keep their generation order, which makes tag assignment
// deterministic.
func Rank(candidates []Candidate) []Candidate {
	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	return ranked
}

// BuildResults converts ranked candidates into the response shape: tags,
// classification, formatted durations and distances, and per-route steps.
func BuildResults(ranked []Candidate) []RouteResult {
	if len(ranked) == 0 {
		return []RouteResult{}
	}

	minDuration := ranked[0].DurationSeconds
	for _, c := range ranked[1:] {
		if c.DurationSeconds < minDuration {
			minDuration = c.DurationSeconds
		}
	}

	results := make([]RouteResult, 0, len(ranked))
	for idx, cand := range ranked {
		var tags []string
		typeLabel := "fast"

		safest := idx == 0
		fastest := cand.DurationSeconds == minDuration

		if safest {
			tags = append(tags, TagSafest)
			typeLabel = "safe"
		}
		if fastest {
			tags = append(tags, TagFastest)
			if !safest {
				typeLabel = "fast"
			}
		}
		if len(tags) == 0 {
			tags = append(tags, TagAlternative)
		}

		level, color := Classify(cand.Score)

		details := cand.Reasons
		if details == nil {
			details = []string{}
		}

		geometry := make([][2]float64, 0, len(cand.Coords))
		for _, p := range cand.Coords {
			geometry = append(geometry, [2]float64{p.Lat, p.Lng})
		}

		result := RouteResult{
			RouteID:      fmt.Sprintf("r_%s_%d", cand.Source, idx),
			Type:         typeLabel,
			Summary:      tags[0],
			RiskScore:    cand.Score,
			RiskLevel:    level,
			Color:        color,
			Details:      details,
			Geometry:     geometry,
			DurationMin:  int(cand.DurationSeconds / 60),
			DurationText: formatTravelTime(cand.DurationSeconds),
			DistanceText: fmt.Sprintf("%.1f km", cand.DistanceMeters/1000),
			Tags:         tags,
			Steps:        ExtractSteps(cand.Raw),
		}

		if safest && !fastest {
			extra := int(math.Round((cand.DurationSeconds - minDuration) / 60))
			if extra > 0 {
				result.TradeoffText = fmt.Sprintf("+%d min vs fastest", extra)
			}
		}

		results = append(results, result)
	}

	return results
}
