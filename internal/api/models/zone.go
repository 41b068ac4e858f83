package models

import (
	"strings"
	"time"

	"github.com/saferoute/saferoute/internal/zones"
)

// ZoneRequest is the request body for POST /v1/zones. Only name and
// coordinates are required; radius and level fall back to category defaults.
type ZoneRequest struct {
	Name     string   `json:"name"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	RadiusKm *float64 `json:"radius_km,omitempty"`
	Level    string   `json:"risk_level,omitempty"`
	Category string   `json:"category,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Validate checks required fields.
func (r *ZoneRequest) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required", Code: "required"})
	}
	if r.Lat == nil {
		errs = append(errs, FieldError{Field: "lat", Message: "lat is required", Code: "required"})
	} else if *r.Lat < -90 || *r.Lat > 90 {
		errs = append(errs, FieldError{Field: "lat", Message: "lat must be between -90 and 90", Code: "range"})
	}
	if r.Lng == nil {
		errs = append(errs, FieldError{Field: "lng", Message: "lng is required", Code: "required"})
	} else if *r.Lng < -180 || *r.Lng > 180 {
		errs = append(errs, FieldError{Field: "lng", Message: "lng must be between -180 and 180", Code: "range"})
	}
	if r.RadiusKm != nil && *r.RadiusKm <= 0 {
		errs = append(errs, FieldError{Field: "radius_km", Message: "radius_km must be positive", Code: "range"})
	}

	switch r.Level {
	case "", "HIGH", "MEDIUM":
	default:
		errs = append(errs, FieldError{Field: "risk_level", Message: "risk_level must be HIGH or MEDIUM", Code: "invalid"})
	}

	switch r.Category {
	case "", "risk", "accident":
	default:
		errs = append(errs, FieldError{Field: "category", Message: "category must be risk or accident", Code: "invalid"})
	}

	return errs
}

// Record converts the request to a raw zone record for storage.
func (r *ZoneRequest) Record() zones.Record {
	name := strings.TrimSpace(r.Name)
	rec := zones.Record{
		Name:     &name,
		Lat:      r.Lat,
		Lng:      r.Lng,
		RadiusKm: r.RadiusKm,
		Category: zones.CategoryRisk,
	}
	if r.Category == "accident" {
		rec.Category = zones.CategoryAccident
	}
	if r.Level != "" {
		level := r.Level
		rec.Level = &level
	}
	if r.Reason != "" {
		reason := r.Reason
		rec.Reason = &reason
	}
	return rec
}

// ZoneResponse is a single zone in API responses.
type ZoneResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	RadiusKm  float64   `json:"radius_km"`
	Level     string    `json:"risk_level"`
	Category  string    `json:"category"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewZoneResponse converts a normalized zone to its API shape.
func NewZoneResponse(z zones.Zone) ZoneResponse {
	return ZoneResponse{
		ID:        z.ID,
		Name:      z.Name,
		Lat:       z.Lat,
		Lng:       z.Lng,
		RadiusKm:  z.RadiusKm,
		Level:     string(z.Level),
		Category:  string(z.Category),
		Reason:    z.Reason,
		CreatedAt: z.CreatedAt,
	}
}

// ZoneListResponse is the response body for GET /v1/zones.
type ZoneListResponse struct {
	Zones []ZoneResponse `json:"zones"`
}
