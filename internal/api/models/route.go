package models

import (
	"strings"

	"github.com/saferoute/saferoute/internal/riskengine"
	"github.com/saferoute/saferoute/internal/routing"
)

// RouteRequest is the request body for POST /v1/routes. Source and
// destination accept either "lat,lng" literals or free-text place names.
type RouteRequest struct {
	Source       string `json:"source"`
	Destination  string `json:"destination"`
	Mode         string `json:"mode,omitempty"`
	TimeOfDay    string `json:"time_of_day,omitempty"`
	CrowdDensity string `json:"crowd_density,omitempty"`
}

// Validate checks required fields and returns field errors for anything
// missing or unrecognized.
func (r *RouteRequest) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(r.Source) == "" {
		errs = append(errs, FieldError{Field: "source", Message: "source is required", Code: "required"})
	}
	if strings.TrimSpace(r.Destination) == "" {
		errs = append(errs, FieldError{Field: "destination", Message: "destination is required", Code: "required"})
	}

	switch r.Mode {
	case "", "driving", "walking", "cycling", "transit":
	default:
		errs = append(errs, FieldError{Field: "mode", Message: "mode must be one of driving, walking, cycling, transit", Code: "invalid"})
	}

	switch r.TimeOfDay {
	case "", "day", "night":
	default:
		errs = append(errs, FieldError{Field: "time_of_day", Message: "time_of_day must be day or night", Code: "invalid"})
	}

	switch r.CrowdDensity {
	case "", "low", "medium", "high":
	default:
		errs = append(errs, FieldError{Field: "crowd_density", Message: "crowd_density must be low, medium or high", Code: "invalid"})
	}

	return errs
}

// EngineContext converts the request fields to engine types, applying
// defaults for anything omitted: driving, daytime, medium crowds.
func (r *RouteRequest) EngineContext() riskengine.Context {
	rctx := riskengine.Context{
		TimeOfDay:    riskengine.Day,
		CrowdDensity: riskengine.CrowdMedium,
		Mode:         routing.ModeDriving,
	}

	if r.TimeOfDay == "night" {
		rctx.TimeOfDay = riskengine.Night
	}

	switch r.CrowdDensity {
	case "low":
		rctx.CrowdDensity = riskengine.CrowdLow
	case "high":
		rctx.CrowdDensity = riskengine.CrowdHigh
	}

	switch r.Mode {
	case "walking":
		rctx.Mode = routing.ModeWalking
	case "cycling":
		rctx.Mode = routing.ModeCycling
	case "transit":
		rctx.Mode = routing.ModeTransit
	}

	return rctx
}

// RouteResponse is the response body for POST /v1/routes.
type RouteResponse struct {
	Source      Point                    `json:"source"`
	Destination Point                    `json:"destination"`
	Routes      []riskengine.RouteResult `json:"routes"`
}
