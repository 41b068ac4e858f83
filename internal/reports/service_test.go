package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

type capturePublisher struct {
	published []Report
	err       error
}

func (c *capturePublisher) PublishCreated(ctx context.Context, r Report) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, r)
	return nil
}

func TestSubmit_AssignsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepository()
	pub := &capturePublisher{}
	svc := NewService(ServiceConfig{Repository: repo, Publisher: pub, Logger: zerolog.Nop()})

	rep, err := svc.Submit(context.Background(), Report{
		Lat: 12.97, Lng: 77.59, Category: CategoryTheft, Description: "  phone snatching  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(rep.ID, "rpt_") {
		t.Errorf("unexpected id: %s", rep.ID)
	}
	if rep.ReportedAt.IsZero() {
		t.Error("reported_at not set")
	}
	if rep.Description != "phone snatching" {
		t.Errorf("description not trimmed: %q", rep.Description)
	}
	if len(pub.published) != 1 || pub.published[0].ID != rep.ID {
		t.Errorf("event not published: %+v", pub.published)
	}

	stored, err := repo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != rep.ID {
		t.Errorf("report not stored: %+v", stored)
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := NewService(ServiceConfig{Repository: NewMemoryRepository(), Logger: zerolog.Nop()})

	_, err := svc.Submit(context.Background(), Report{Lat: 95, Lng: 77.59, Category: CategoryTheft})
	if !errors.Is(err, ErrInvalidReport) {
		t.Errorf("out-of-range coords: got %v", err)
	}

	_, err = svc.Submit(context.Background(), Report{Lat: 12.97, Lng: 77.59, Category: "vandalism"})
	if !errors.Is(err, ErrInvalidReport) {
		t.Errorf("unknown category: got %v", err)
	}
}

func TestSubmit_TruncatesLongDescription(t *testing.T) {
	svc := NewService(ServiceConfig{Repository: NewMemoryRepository(), Logger: zerolog.Nop()})

	rep, err := svc.Submit(context.Background(), Report{
		Lat: 12.97, Lng: 77.59, Category: CategoryOther,
		Description: strings.Repeat("a", maxDescriptionLen+100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Description) != maxDescriptionLen {
		t.Errorf("description length = %d, want %d", len(rep.Description), maxDescriptionLen)
	}
}

func TestSubmit_TruncationKeepsMultiByteTextValid(t *testing.T) {
	svc := NewService(ServiceConfig{Repository: NewMemoryRepository(), Logger: zerolog.Nop()})

	// Kannada characters are 3 bytes each; a byte-index cut would leave a
	// broken trailing rune.
	rep, err := svc.Submit(context.Background(), Report{
		Lat: 12.97, Lng: 77.59, Category: CategoryOther,
		Description: strings.Repeat("ಕ", maxDescriptionLen+10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.ValidString(rep.Description) {
		t.Error("truncated description is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(rep.Description); n != maxDescriptionLen {
		t.Errorf("description rune count = %d, want %d", n, maxDescriptionLen)
	}
}

func TestSubmit_PublishFailureDoesNotFail(t *testing.T) {
	pub := &capturePublisher{err: errors.New("topic gone")}
	svc := NewService(ServiceConfig{Repository: NewMemoryRepository(), Publisher: pub, Logger: zerolog.Nop()})

	_, err := svc.Submit(context.Background(), Report{Lat: 12.97, Lng: 77.59, Category: CategoryHarassment})
	if err != nil {
		t.Fatalf("publish failure must not fail the submission: %v", err)
	}
}

func TestMemoryRepository_ListNear(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Now()

	seed := []Report{
		{ID: "rpt_a", Lat: 12.970, Lng: 77.590, Category: CategoryTheft, ReportedAt: now.Add(-2 * time.Hour)},
		{ID: "rpt_b", Lat: 12.972, Lng: 77.592, Category: CategoryTheft, ReportedAt: now.Add(-1 * time.Hour)},
		{ID: "rpt_c", Lat: 13.5, Lng: 78.5, Category: CategoryTheft, ReportedAt: now},
	}
	for _, r := range seed {
		if err := repo.Create(context.Background(), r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	near, err := repo.ListNear(context.Background(), 12.971, 77.591, 1.0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(near) != 2 {
		t.Fatalf("expected 2 nearby reports, got %d", len(near))
	}
	if near[0].ID != "rpt_b" {
		t.Errorf("expected most recent first, got %s", near[0].ID)
	}
}
