package emergency

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

func newTestService(blacklist ...BlacklistEntry) (*Service, *MemorySOSRepository) {
	sosRepo := NewMemorySOSRepository()
	svc := NewService(ServiceConfig{
		SOS:       sosRepo,
		Blacklist: NewMemoryBlacklistRepository(blacklist...),
		Logger:    zerolog.Nop(),
	})
	return svc, sosRepo
}

func TestTriggerSOS(t *testing.T) {
	svc, repo := newTestService()

	ev, err := svc.TriggerSOS(context.Background(), SOSEvent{
		Lat: 12.97, Lng: 77.59, Message: "  need help  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ev.ID, "sos_") {
		t.Errorf("unexpected id: %s", ev.ID)
	}
	if ev.TriggeredAt.IsZero() {
		t.Error("triggered_at not set")
	}
	if ev.Message != "need help" {
		t.Errorf("message not trimmed: %q", ev.Message)
	}

	stored := repo.Events()
	if len(stored) != 1 || stored[0].ID != ev.ID {
		t.Errorf("event not stored: %+v", stored)
	}
}

func TestTriggerSOS_InvalidCoordinates(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.TriggerSOS(context.Background(), SOSEvent{Lat: 95, Lng: 77.59})
	if !errors.Is(err, ErrInvalidSOS) {
		t.Fatalf("expected ErrInvalidSOS, got %v", err)
	}
	if len(repo.Events()) != 0 {
		t.Error("invalid event must not be stored")
	}
}

func TestTriggerSOS_TruncatesLongMessage(t *testing.T) {
	svc, _ := newTestService()

	ev, err := svc.TriggerSOS(context.Background(), SOSEvent{
		Lat: 12.97, Lng: 77.59, Message: strings.Repeat("a", maxMessageLen+50),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ev.Message) != maxMessageLen {
		t.Errorf("message length = %d, want %d", len(ev.Message), maxMessageLen)
	}
}

func TestTriggerSOS_TruncationKeepsMultiByteTextValid(t *testing.T) {
	svc, _ := newTestService()

	// Kannada characters are 3 bytes each; a byte-index cut would leave a
	// broken trailing rune.
	ev, err := svc.TriggerSOS(context.Background(), SOSEvent{
		Lat: 12.97, Lng: 77.59, Message: strings.Repeat("ಸ", maxMessageLen+10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.ValidString(ev.Message) {
		t.Error("truncated message is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(ev.Message); n != maxMessageLen {
		t.Errorf("message rune count = %d, want %d", n, maxMessageLen)
	}
}

func TestCheckNumber(t *testing.T) {
	entry := BlacklistEntry{Phone: "+919876543210", Label: "known scam caller", AddedAt: time.Now()}
	svc, _ := newTestService(entry)

	got, err := svc.CheckNumber(context.Background(), "+91 98765-43210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Label != "known scam caller" {
		t.Errorf("formatted number should match: %+v", got)
	}

	got, err = svc.CheckNumber(context.Background(), "+911112223334")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("unlisted number should miss, got %+v", got)
	}

	got, err = svc.CheckNumber(context.Background(), "not a number")
	if err != nil || got != nil {
		t.Errorf("garbage input should miss cleanly, got %+v err %v", got, err)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+91 98765-43210", "+919876543210"},
		{"(080) 2222 3333", "08022223333"},
		{"98 76+54", "987654"}, // plus only honored at the start
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
