// Package emergency handles SOS triggers and the scam-number blacklist.
package emergency

import (
	"context"
	"errors"
	"time"
)

// SOSEvent records a single SOS trigger.
type SOSEvent struct {
	ID          string    `json:"id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Message     string    `json:"message,omitempty"`
	ContactHint string    `json:"contact_hint,omitempty"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// BlacklistEntry is a known scam or harassment phone number.
type BlacklistEntry struct {
	Phone   string    `json:"phone"`
	Label   string    `json:"label"`
	AddedAt time.Time `json:"added_at"`
}

// Sentinel errors for emergency operations.
var (
	// ErrInvalidSOS indicates the SOS request failed validation.
	ErrInvalidSOS = errors.New("invalid sos request")
)

// SOSRepository stores SOS events.
type SOSRepository interface {
	// Create persists a new SOS event.
	Create(ctx context.Context, ev SOSEvent) error
}

// BlacklistRepository stores blacklisted phone numbers.
type BlacklistRepository interface {
	// List returns all blacklist entries.
	List(ctx context.Context) ([]BlacklistEntry, error)
	// Lookup returns the entry for a normalized phone number, if any.
	Lookup(ctx context.Context, phone string) (*BlacklistEntry, error)
}
