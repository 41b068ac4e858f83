// Package zones provides the hazard zone store. Zones are circular
// geographic areas with a severity level, read by the risk engine and shown
// on the client map. Records of varying shape are normalized once at the
// store boundary so the rest of the system never sees missing fields.
package zones

import (
	"errors"
	"time"
)

// Sentinel errors for zone operations.
var (
	// ErrZoneNotFound indicates the requested zone does not exist.
	ErrZoneNotFound = errors.New("zone not found")
)

// Category distinguishes zone origins and drives normalization defaults.
type Category string

const (
	// CategoryRisk marks crime or danger hotspots.
	CategoryRisk Category = "risk"
	// CategoryAccident marks accident-prone stretches.
	CategoryAccident Category = "accident"
)

// Level is the severity of a zone.
type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
)

// Zone is a fully normalized hazard zone. All fields are populated; the
// engine can rely on RadiusKm > 0 and valid coordinates.
type Zone struct {
	ID        string
	Name      string
	Lat       float64
	Lng       float64
	RadiusKm  float64
	Level     Level
	Category  Category
	Reason    string
	CreatedAt time.Time
}

// Record is a raw zone document as it comes from storage. Legacy documents
// may miss any field except the ID.
type Record struct {
	ID        string
	Name      *string
	Lat       *float64
	Lng       *float64
	RadiusKm  *float64
	Level     *string
	Reason    *string
	Category  Category
	CreatedAt time.Time
}

// Normalization defaults per category.
const (
	defaultRiskRadiusKm     = 2.0
	defaultAccidentRadiusKm = 1.0
	defaultName             = "Unknown Zone"
)

// Normalize converts a raw record into a Zone, applying the category
// defaults. Records without coordinates cannot be matched against routes and
// are dropped (ok is false).
func Normalize(rec Record) (Zone, bool) {
	if rec.Lat == nil || rec.Lng == nil {
		return Zone{}, false
	}
	if *rec.Lat < -90 || *rec.Lat > 90 || *rec.Lng < -180 || *rec.Lng > 180 {
		return Zone{}, false
	}

	category := rec.Category
	if category == "" {
		category = CategoryRisk
	}

	z := Zone{
		ID:        rec.ID,
		Name:      defaultName,
		Lat:       *rec.Lat,
		Lng:       *rec.Lng,
		Category:  category,
		CreatedAt: rec.CreatedAt,
	}

	if rec.Name != nil && *rec.Name != "" {
		z.Name = *rec.Name
	}
	if rec.Reason != nil {
		z.Reason = *rec.Reason
	}

	switch category {
	case CategoryAccident:
		z.RadiusKm = defaultAccidentRadiusKm
		z.Level = LevelMedium
	default:
		z.RadiusKm = defaultRiskRadiusKm
		z.Level = LevelHigh
	}

	if rec.RadiusKm != nil && *rec.RadiusKm > 0 {
		z.RadiusKm = *rec.RadiusKm
	}
	if rec.Level != nil {
		switch Level(*rec.Level) {
		case LevelHigh:
			z.Level = LevelHigh
		case LevelMedium:
			z.Level = LevelMedium
		}
	}

	return z, true
}
