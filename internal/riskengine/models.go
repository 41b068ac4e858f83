// Package riskengine scores candidate routes by combined safety and
// efficiency. Given an origin, destination, and request context it generates
// geometrically distinct candidates through the route provider, scores each
// against the hazard zone snapshot, and returns a small ranked, tagged set.
package riskengine

import (
	"github.com/saferoute/saferoute/internal/geo"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/zones"
)

// TimeOfDay indicates whether the trip happens during daylight.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// CrowdDensity is the expected crowd level along the route.
type CrowdDensity string

const (
	CrowdLow    CrowdDensity = "low"
	CrowdMedium CrowdDensity = "medium"
	CrowdHigh   CrowdDensity = "high"
)

// Context carries the per-request factors that influence scoring.
// Immutable for the duration of a request.
type Context struct {
	TimeOfDay    TimeOfDay
	CrowdDensity CrowdDensity
	Mode         routing.Mode
}

// Source labels how a candidate was produced.
type Source string

const (
	SourceDirect      Source = "direct"
	SourceLeftBow     Source = "left_bow"
	SourceRightBow    Source = "right_bow"
	SourceProviderAlt Source = "fallback_alt"
)

// Candidate is a scored route candidate, internal to the engine.
type Candidate struct {
	Source          Source
	Raw             routing.RawRoute
	Coords          []geo.Point // decoded (lat, lng) order
	Score           int
	Reasons         []string
	DistanceMeters  float64
	DurationSeconds float64
}

// RiskLevel classifies a risk score.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "SAFE"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Color is the display color matching a risk level.
type Color string

const (
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorRed    Color = "RED"
)

// Result tags.
const (
	TagSafest      = "Safest"
	TagFastest     = "Fastest"
	TagAlternative = "Alternative"
)

// StepText is a single turn-by-turn entry for display.
type StepText struct {
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
}

// RouteResult is one scored, tagged route in the response.
type RouteResult struct {
	RouteID      string        `json:"route_id"`
	Type         string        `json:"type"` // "safe" or "fast"
	Summary      string        `json:"summary"`
	RiskScore    int           `json:"risk_score"`
	RiskLevel    RiskLevel     `json:"risk_level"`
	Color        Color         `json:"color"`
	Details      []string      `json:"details"`
	Geometry     [][2]float64  `json:"geometry"` // (lat, lng) pairs
	DurationMin  int           `json:"duration_min"`
	DurationText string        `json:"duration_text"`
	DistanceText string        `json:"distance_text"`
	TradeoffText string        `json:"tradeoff_text,omitempty"`
	Tags         []string      `json:"tags"`
	Steps        []StepText    `json:"steps"`
}

// scoreBounds clamp the final risk score.
const (
	minScore = 5
	maxScore = 99
)

// Classify maps a final, clamped score to its risk level and display color.
// The mapping is a pure function of the score: <40 safe, <75 medium,
// otherwise high.
func Classify(score int) (RiskLevel, Color) {
	switch {
	case score < 40:
		return RiskSafe, ColorGreen
	case score < 75:
		return RiskMedium, ColorYellow
	default:
		return RiskHigh, ColorRed
	}
}

// decodeGeometry converts provider (lng, lat) geometry into (lat, lng)
// points. Malformed pairs are dropped.
func decodeGeometry(geometry [][]float64) []geo.Point {
	coords := make([]geo.Point, 0, len(geometry))
	for _, pair := range geometry {
		if len(pair) < 2 {
			continue
		}
		coords = append(coords, geo.Point{Lat: pair[1], Lng: pair[0]})
	}
	return coords
}

// zoneCenter extracts the zone center as a geo point.
func zoneCenter(z zones.Zone) geo.Point {
	return geo.Point{Lat: z.Lat, Lng: z.Lng}
}
