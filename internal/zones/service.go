package zones

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the zone service.
type ServiceConfig struct {
	// Repository is the zone storage backend.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long the zone snapshot stays fresh (default: 2 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving a stale snapshot on storage errors
	// (default: 15 minutes).
	StaleIfErrorTTL time.Duration
}

// Service provides normalized hazard zones with snapshot caching. Each
// routing request reads one immutable snapshot, so scoring within a request
// never observes zone churn.
type Service struct {
	repo            Repository
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu       sync.RWMutex
	snapshot []Zone
	fetched  time.Time
	expires  time.Time
}

// NewService creates a new zone service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 2 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 15 * time.Minute
	}

	return &Service{
		repo:            cfg.Repository,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
	}
}

// ActiveZones returns the current normalized zone snapshot. Uses the cached
// snapshot if fresh; on storage errors a stale snapshot is served within the
// stale-if-error window.
func (s *Service) ActiveZones(ctx context.Context) ([]Zone, error) {
	s.mu.RLock()
	if s.snapshot != nil && time.Now().Before(s.expires) {
		snap := s.snapshot
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	return s.refresh(ctx)
}

// ActiveZonesByCategory filters the snapshot to one category.
func (s *Service) ActiveZonesByCategory(ctx context.Context, category Category) ([]Zone, error) {
	all, err := s.ActiveZones(ctx)
	if err != nil {
		return nil, err
	}

	var out []Zone
	for _, z := range all {
		if z.Category == category {
			out = append(out, z)
		}
	}
	return out, nil
}

// refresh reloads and normalizes the snapshot from storage.
func (s *Service) refresh(ctx context.Context) ([]Zone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if s.snapshot != nil && time.Now().Before(s.expires) {
		return s.snapshot, nil
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		if s.snapshot != nil && time.Now().Before(s.fetched.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().Err(err).
				Time("fetched_at", s.fetched).
				Msg("serving stale zone snapshot due to storage error")
			return s.snapshot, nil
		}
		return nil, fmt.Errorf("listing zones: %w", err)
	}

	zones := make([]Zone, 0, len(records))
	skipped := 0
	for _, rec := range records {
		z, ok := Normalize(rec)
		if !ok {
			skipped++
			continue
		}
		zones = append(zones, z)
	}

	if skipped > 0 {
		s.logger.Warn().
			Int("skipped", skipped).
			Msg("dropped zone records without coordinates")
	}

	now := time.Now()
	s.snapshot = zones
	s.fetched = now
	s.expires = now.Add(s.cacheTTL)

	s.logger.Debug().
		Int("zone_count", len(zones)).
		Msg("refreshed zone snapshot")

	return zones, nil
}

// Create normalizes defaults for a new zone and stores it.
// The snapshot cache is invalidated so the next request sees the new zone.
func (s *Service) Create(ctx context.Context, rec Record) (Zone, error) {
	if rec.ID == "" {
		rec.ID = "zone_" + uuid.New().String()[:12]
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	z, ok := Normalize(rec)
	if !ok {
		return Zone{}, fmt.Errorf("zone record missing coordinates")
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return Zone{}, fmt.Errorf("creating zone: %w", err)
	}

	s.InvalidateCache()
	return z, nil
}

// Delete removes a zone and invalidates the snapshot cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

// InvalidateCache discards the cached snapshot.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.expires = time.Time{}
}

// Refresh forces a snapshot reload, used by the background worker.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	s.InvalidateCache()
	zones, err := s.refresh(ctx)
	if err != nil {
		return 0, err
	}
	return len(zones), nil
}
