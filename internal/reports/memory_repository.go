package reports

import (
	"context"
	"sort"
	"sync"

	"github.com/saferoute/saferoute/internal/geo"
)

// MemoryRepository is an in-memory implementation of Repository, used in
// tests and local development.
type MemoryRepository struct {
	mu      sync.RWMutex
	reports []Report
}

// NewMemoryRepository creates a new in-memory report repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create persists a new report.
func (r *MemoryRepository) Create(ctx context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	return nil
}

// ListRecent returns the newest reports, most recent first.
func (r *MemoryRepository) ListRecent(ctx context.Context, limit int) ([]Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]Report(nil), r.reports...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListNear returns reports within radiusKm of the given point, most recent
// first.
func (r *MemoryRepository) ListNear(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	center := geo.Point{Lat: lat, Lng: lng}
	var out []Report
	for _, rep := range r.reports {
		if geo.Haversine(center, geo.Point{Lat: rep.Lat, Lng: rep.Lng}) <= radiusKm {
			out = append(out, rep)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportedAt.After(out[j].ReportedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
