// Package osrm provides a client for the OSRM route service HTTP API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "http://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the demo server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// profileFor maps travel modes to OSRM profiles. OSRM has no transit
// timetables, transit falls back to the driving profile.
func profileFor(mode routing.Mode) string {
	switch mode {
	case routing.ModeWalking:
		return "walking"
	case routing.ModeCycling:
		return "cycling"
	default:
		return "driving"
	}
}

// Route retrieves routes between two points, optionally via waypoints.
func (c *Client) Route(ctx context.Context, req routing.RouteRequest) (*routing.RouteResponse, error) {
	if err := routing.ValidateCoordinate(req.Origin); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}
	if err := routing.ValidateCoordinate(req.Destination); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	// OSRM path segment is lng,lat pairs separated by semicolons.
	coords := make([]string, 0, len(req.Waypoints)+2)
	coords = append(coords, fmt.Sprintf("%f,%f", req.Origin.Lng, req.Origin.Lat))
	for _, wp := range req.Waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", wp.Lng, wp.Lat))
	}
	coords = append(coords, fmt.Sprintf("%f,%f", req.Destination.Lng, req.Destination.Lat))

	query := url.Values{}
	query.Set("overview", "full")
	query.Set("geometries", "geojson")
	query.Set("steps", "true")
	if req.Alternatives && len(req.Waypoints) == 0 {
		query.Set("alternatives", "true")
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?%s",
		c.baseURL, profileFor(req.Mode), strings.Join(coords, ";"), query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("profile", profileFor(req.Mode)).
		Int("waypoints", len(req.Waypoints)).
		Bool("alternatives", req.Alternatives).
		Msg("requesting route from OSRM")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(respBody, &osrmResp); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_RESPONSE",
			Message:  "failed to decode provider response",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	if osrmResp.Code != codeOK {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     osrmResp.Code,
			Message:  osrmResp.Message,
			Err:      routing.ErrNoRouteFound,
		}
	}

	result := toRouteResponse(&osrmResp)

	c.logger.Debug().
		Int("route_count", len(result.Routes)).
		Msg("received routes from OSRM")

	return result, nil
}

// handleErrorResponse maps OSRM HTTP error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var osrmErr osrmResponse
	if err := json.Unmarshal(body, &osrmErr); err == nil {
		if osrmErr.Code == codeNoRoute || osrmErr.Code == codeNoMatch {
			return &routing.Error{
				Provider: ProviderName,
				Code:     osrmErr.Code,
				Message:  osrmErr.Message,
				Err:      routing.ErrNoRouteFound,
			}
		}
	}

	if statusCode == http.StatusBadRequest {
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  "routing provider rejected the request",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	return &routing.Error{
		Provider: ProviderName,
		Code:     fmt.Sprintf("HTTP_%d", statusCode),
		Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
		Err:      routing.ErrProviderUnavailable,
	}
}

// toRouteResponse converts an OSRM response to the domain model.
func toRouteResponse(resp *osrmResponse) *routing.RouteResponse {
	routes := make([]routing.RawRoute, 0, len(resp.Routes))

	for i := range resp.Routes {
		or := &resp.Routes[i]
		route := routing.RawRoute{
			Geometry:        or.Geometry.Coordinates,
			DistanceMeters:  or.Distance,
			DurationSeconds: or.Duration,
		}

		for j := range or.Legs {
			leg := routing.Leg{}
			for k := range or.Legs[j].Steps {
				step := &or.Legs[j].Steps[k]
				leg.Steps = append(leg.Steps, routing.Step{
					ManeuverType:     step.Maneuver.Type,
					ManeuverModifier: step.Maneuver.Modifier,
					Name:             step.Name,
					DistanceMeters:   step.Distance,
				})
			}
			route.Legs = append(route.Legs, leg)
		}

		routes = append(routes, route)
	}

	return &routing.RouteResponse{
		Routes:    routes,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}
}
