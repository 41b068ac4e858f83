package zones

import "context"

// Repository defines storage operations for hazard zones.
type Repository interface {
	// List returns all raw zone records, oldest first.
	List(ctx context.Context) ([]Record, error)
	// ListByCategory returns raw records for a single category.
	ListByCategory(ctx context.Context, category Category) ([]Record, error)
	// Create stores a new zone record.
	Create(ctx context.Context, rec Record) error
	// Delete removes a zone by ID. Returns ErrZoneNotFound if absent.
	Delete(ctx context.Context, id string) error
}
