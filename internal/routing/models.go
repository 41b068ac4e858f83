// Package routing defines the route provider abstraction used by the risk
// engine. Providers return raw routes (geometry, distance, duration, steps);
// everything safety-related happens downstream.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the provider is down, rate limited, or
	// returned a malformed response.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists between the given points.
	ErrNoRouteFound = errors.New("no route found between the given points")
	// ErrInvalidCoordinates indicates the provided coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// Provider is a routing engine behind a uniform interface.
type Provider interface {
	// Route computes routes between two points, optionally through waypoints.
	// With Alternatives set the provider may return more than one route.
	Route(ctx context.Context, req RouteRequest) (*RouteResponse, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Mode represents a mode of transport.
type Mode string

const (
	ModeDriving Mode = "driving"
	ModeWalking Mode = "walking"
	ModeCycling Mode = "cycling"
	ModeTransit Mode = "transit"
)

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// RouteRequest is the request for computing routes.
type RouteRequest struct {
	Origin      Coordinate
	Destination Coordinate
	// Waypoints are intermediate points the route must pass through, in order.
	Waypoints []Coordinate
	Mode      Mode
	// Alternatives requests additional distinct routes when the provider
	// supports them. Ignored when waypoints are present.
	Alternatives bool
}

// RouteResponse contains the routes returned by a provider.
type RouteResponse struct {
	Routes    []RawRoute
	Provider  string
	FetchedAt time.Time
}

// RawRoute is a single provider route. Geometry is an ordered (lng, lat)
// point sequence, matching the GeoJSON convention both providers use.
type RawRoute struct {
	Geometry        [][]float64
	DistanceMeters  float64
	DurationSeconds float64
	Legs            []Leg
}

// Leg is a portion of a route between two waypoints.
type Leg struct {
	Steps []Step
}

// Step is a single maneuver within a leg. Providers either supply structured
// maneuver metadata (OSRM) or pre-rendered instruction text (ORS); consumers
// prefer Instruction when set.
type Step struct {
	Instruction      string
	ManeuverType     string
	ManeuverModifier string
	Name             string
	DistanceMeters   float64
}

// Error provides detailed error information from a routing provider.
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

// ValidateCoordinate checks that a coordinate is within valid ranges.
func ValidateCoordinate(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
