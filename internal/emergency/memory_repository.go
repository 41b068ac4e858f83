package emergency

import (
	"context"
	"sync"
)

// MemorySOSRepository is an in-memory implementation of SOSRepository, used
// in tests and local development.
type MemorySOSRepository struct {
	mu     sync.RWMutex
	events []SOSEvent
}

// NewMemorySOSRepository creates a new in-memory SOS repository.
func NewMemorySOSRepository() *MemorySOSRepository {
	return &MemorySOSRepository{}
}

// Create persists a new SOS event.
func (r *MemorySOSRepository) Create(ctx context.Context, ev SOSEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of all stored events.
func (r *MemorySOSRepository) Events() []SOSEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SOSEvent(nil), r.events...)
}

// MemoryBlacklistRepository is an in-memory implementation of
// BlacklistRepository.
type MemoryBlacklistRepository struct {
	mu      sync.RWMutex
	entries map[string]BlacklistEntry
}

// NewMemoryBlacklistRepository creates a new in-memory blacklist repository,
// optionally seeded with entries.
func NewMemoryBlacklistRepository(seed ...BlacklistEntry) *MemoryBlacklistRepository {
	entries := make(map[string]BlacklistEntry, len(seed))
	for _, e := range seed {
		entries[e.Phone] = e
	}
	return &MemoryBlacklistRepository{entries: entries}
}

// List returns all blacklist entries.
func (r *MemoryBlacklistRepository) List(ctx context.Context) ([]BlacklistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]BlacklistEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

// Lookup returns the entry for a normalized phone number, or nil when absent.
func (r *MemoryBlacklistRepository) Lookup(ctx context.Context, phone string) (*BlacklistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[phone]; ok {
		return &e, nil
	}
	return nil, nil
}
