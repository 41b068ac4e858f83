package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geo"
)

// maxDescriptionLen caps free-text descriptions.
const maxDescriptionLen = 500

// ServiceConfig holds configuration for the report service.
type ServiceConfig struct {
	// Repository stores reports (required).
	Repository Repository

	// Publisher announces accepted reports. Optional; publish failures never
	// fail the submission.
	Publisher Publisher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service accepts and lists community incident reports.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    zerolog.Logger
}

// NewService creates a new report service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repository,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
	}
}

// Submit validates and stores a new report, then announces it. The stored
// report is returned with its assigned ID and timestamp.
func (s *Service) Submit(ctx context.Context, rep Report) (Report, error) {
	p := geo.Point{Lat: rep.Lat, Lng: rep.Lng}
	if !p.Valid() {
		return Report{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidReport)
	}
	if !rep.Category.Valid() {
		return Report{}, fmt.Errorf("%w: unknown category %q", ErrInvalidReport, rep.Category)
	}

	rep.Description = truncateRunes(strings.TrimSpace(rep.Description), maxDescriptionLen)

	rep.ID = "rpt_" + uuid.New().String()[:12]
	rep.ReportedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, rep); err != nil {
		return Report{}, fmt.Errorf("storing report: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCreated(ctx, rep); err != nil {
			// The report is already stored; downstream consumers catch up on
			// the next aggregation pass.
			s.logger.Warn().Err(err).Str("report_id", rep.ID).Msg("failed to publish report event")
		}
	}

	s.logger.Info().
		Str("report_id", rep.ID).
		Str("category", string(rep.Category)).
		Msg("accepted incident report")

	return rep, nil
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

// Recent returns the newest reports, most recent first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
