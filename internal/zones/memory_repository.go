package zones

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory implementation of Repository for tests
// and local development without a database.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryRepository creates a new in-memory zone repository.
func NewMemoryRepository(seed ...Record) *MemoryRepository {
	return &MemoryRepository{records: append([]Record(nil), seed...)}
}

// List returns all raw zone records in insertion order.
func (r *MemoryRepository) List(_ context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Record(nil), r.records...), nil
}

// ListByCategory returns raw records for a single category.
func (r *MemoryRepository) ListByCategory(_ context.Context, category Category) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Record
	for _, rec := range r.records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Create stores a new zone record.
func (r *MemoryRepository) Create(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Delete removes a zone by ID.
func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return ErrZoneNotFound
}
