package emergency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geo"
)

// maxMessageLen caps free-text SOS messages.
const maxMessageLen = 280

// ServiceConfig holds configuration for the emergency service.
type ServiceConfig struct {
	// SOS stores SOS events (required).
	SOS SOSRepository

	// Blacklist stores known scam numbers (required).
	Blacklist BlacklistRepository

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service handles SOS triggers and blacklist checks.
type Service struct {
	sos       SOSRepository
	blacklist BlacklistRepository
	logger    zerolog.Logger
}

// NewService creates a new emergency service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		sos:       cfg.SOS,
		blacklist: cfg.Blacklist,
		logger:    cfg.Logger,
	}
}

// TriggerSOS validates and records an SOS event. The stored event is
// returned with its assigned ID and timestamp.
func (s *Service) TriggerSOS(ctx context.Context, ev SOSEvent) (SOSEvent, error) {
	p := geo.Point{Lat: ev.Lat, Lng: ev.Lng}
	if !p.Valid() {
		return SOSEvent{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidSOS)
	}

	ev.Message = truncateRunes(strings.TrimSpace(ev.Message), maxMessageLen)

	ev.ID = "sos_" + uuid.New().String()[:12]
	ev.TriggeredAt = time.Now().UTC()

	if err := s.sos.Create(ctx, ev); err != nil {
		return SOSEvent{}, fmt.Errorf("storing sos event: %w", err)
	}

	// SOS is the one place a loud log line is the point.
	s.logger.Warn().
		Str("sos_id", ev.ID).
		Float64("lat", ev.Lat).
		Float64("lng", ev.Lng).
		Msg("SOS triggered")

	return ev, nil
}

// truncateRunes caps s at max runes, never splitting a multi-byte character.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Blacklist returns all known scam numbers.
func (s *Service) Blacklist(ctx context.Context) ([]BlacklistEntry, error) {
	return s.blacklist.List(ctx)
}

// CheckNumber reports whether a phone number is blacklisted. Formatting
// characters are stripped before lookup, so "+91 98765-43210" and
// "+919876543210" match the same entry.
func (s *Service) CheckNumber(ctx context.Context, phone string) (*BlacklistEntry, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return nil, nil
	}
	return s.blacklist.Lookup(ctx, normalized)
}

// NormalizePhone strips spaces, dashes and parentheses, keeping digits and a
// leading plus sign.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
