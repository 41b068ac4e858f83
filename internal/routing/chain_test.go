package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type stubProvider struct {
	name  string
	resp  *RouteResponse
	err   error
	calls int
}

func (s *stubProvider) Route(_ context.Context, _ RouteRequest) (*RouteResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func (s *stubProvider) Name() string { return s.name }

func oneRoute() *RouteResponse {
	return &RouteResponse{
		Routes: []RawRoute{{
			Geometry:        [][]float64{{77.59, 12.97}, {77.60, 12.98}},
			DistanceMeters:  1200,
			DurationSeconds: 300,
		}},
	}
}

func TestChain_FirstProviderWins(t *testing.T) {
	primary := &stubProvider{name: "primary", resp: oneRoute()}
	secondary := &stubProvider{name: "secondary", resp: oneRoute()}
	chain := NewChain(zerolog.Nop(), primary, secondary)

	resp, err := chain.Route(context.Background(), RouteRequest{Mode: ModeDriving})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(resp.Routes))
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be consulted, got %d calls", secondary.calls)
	}
}

func TestChain_FallsBackOnFailure(t *testing.T) {
	primary := &stubProvider{name: "primary", err: ErrProviderUnavailable}
	secondary := &stubProvider{name: "secondary", resp: oneRoute()}
	chain := NewChain(zerolog.Nop(), primary, secondary)

	resp, err := chain.Route(context.Background(), RouteRequest{Mode: ModeDriving})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Routes) != 1 {
		t.Fatalf("expected 1 route from secondary, got %d", len(resp.Routes))
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("expected one call each, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestChain_EmptyResponseTreatedAsNoRoute(t *testing.T) {
	primary := &stubProvider{name: "primary", resp: &RouteResponse{}}
	secondary := &stubProvider{name: "secondary", resp: oneRoute()}
	chain := NewChain(zerolog.Nop(), primary, secondary)

	resp, err := chain.Route(context.Background(), RouteRequest{Mode: ModeWalking})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Routes) != 1 {
		t.Fatalf("expected fallback route, got %d", len(resp.Routes))
	}
}

func TestChain_AggregatesFailures(t *testing.T) {
	primary := &stubProvider{name: "primary", err: ErrProviderUnavailable}
	secondary := &stubProvider{name: "secondary", err: ErrNoRouteFound}
	chain := NewChain(zerolog.Nop(), primary, secondary)

	_, err := chain.Route(context.Background(), RouteRequest{Mode: ModeDriving})
	if err == nil {
		t.Fatal("expected error when all providers fail")
	}
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("aggregate should contain ErrProviderUnavailable: %v", err)
	}
	if !errors.Is(err, ErrNoRouteFound) {
		t.Errorf("aggregate should contain ErrNoRouteFound: %v", err)
	}
}

func TestChain_StopsOnInvalidCoordinates(t *testing.T) {
	primary := &stubProvider{name: "primary", err: ErrInvalidCoordinates}
	secondary := &stubProvider{name: "secondary", resp: oneRoute()}
	chain := NewChain(zerolog.Nop(), primary, secondary)

	_, err := chain.Route(context.Background(), RouteRequest{Mode: ModeDriving})
	if err == nil {
		t.Fatal("expected error")
	}
	if secondary.calls != 0 {
		t.Errorf("invalid input should not be retried on other providers, got %d calls", secondary.calls)
	}
}

func TestChain_Name(t *testing.T) {
	chain := NewChain(zerolog.Nop(), &stubProvider{name: "osrm"}, &stubProvider{name: "openrouteservice"})
	if got := chain.Name(); got != "chain(osrm,openrouteservice)" {
		t.Errorf("unexpected chain name %q", got)
	}
}
