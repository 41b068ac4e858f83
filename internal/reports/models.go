// Package reports handles community incident reports. Reports feed the
// hazard zone store indirectly: a background consumer aggregates clusters of
// reports into new zones.
package reports

import (
	"context"
	"errors"
	"time"
)

// Category classifies an incident report.
type Category string

const (
	CategoryHarassment   Category = "harassment"
	CategoryTheft        Category = "theft"
	CategoryAccident     Category = "accident"
	CategoryPoorLighting Category = "poor_lighting"
	CategoryOther        Category = "other"
)

// knownCategories is the set of accepted report categories.
var knownCategories = map[Category]bool{
	CategoryHarassment:   true,
	CategoryTheft:        true,
	CategoryAccident:     true,
	CategoryPoorLighting: true,
	CategoryOther:        true,
}

// Valid reports whether the category is one of the accepted values.
func (c Category) Valid() bool {
	return knownCategories[c]
}

// Report is a single community incident report.
type Report struct {
	ID          string    `json:"id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	ReportedAt  time.Time `json:"reported_at"`
}

// Sentinel errors for report operations.
var (
	// ErrInvalidReport indicates the report failed validation.
	ErrInvalidReport = errors.New("invalid report")
	// ErrReportNotFound indicates no report exists with the given ID.
	ErrReportNotFound = errors.New("report not found")
)

// Repository stores incident reports.
type Repository interface {
	// Create persists a new report.
	Create(ctx context.Context, r Report) error
	// ListRecent returns the newest reports, most recent first.
	ListRecent(ctx context.Context, limit int) ([]Report, error)
	// ListNear returns reports within radiusKm of the given point.
	ListNear(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]Report, error)
}

// Publisher announces accepted reports to downstream consumers.
type Publisher interface {
	// PublishCreated announces a newly accepted report.
	PublishCreated(ctx context.Context, r Report) error
}
