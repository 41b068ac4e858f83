// Package positionstack provides a client for the positionstack forward
// geocoding API, used as the primary geocoding provider.
package positionstack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geocode"
	"github.com/saferoute/saferoute/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "positionstack"

	// DefaultBaseURL is the positionstack API base URL. The free tier is
	// HTTP-only.
	DefaultBaseURL = "http://api.positionstack.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the positionstack client.
type ClientConfig struct {
	// APIKey is the positionstack access key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
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

// Client is a positionstack API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new positionstack client.
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
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// forwardResponse represents the positionstack forward geocoding response.
type forwardResponse struct {
	Data []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Label     string  `json:"label"`
		Name      string  `json:"name"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search performs forward geocoding for the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]geocode.Place, error) {
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("access_key", c.apiKey)
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/v1/forward?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().Int("limit", limit).Msg("forward geocoding via positionstack")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &geocode.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach geocoding provider",
			Err:      geocode.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &geocode.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("geocoding provider returned status %d", resp.StatusCode),
			Err:      geocode.ErrProviderUnavailable,
		}
	}

	var psResp forwardResponse
	if err := json.Unmarshal(respBody, &psResp); err != nil {
		return nil, &geocode.Error{
			Provider: ProviderName,
			Code:     "MALFORMED_RESPONSE",
			Message:  "failed to decode provider response",
			Err:      geocode.ErrProviderUnavailable,
		}
	}

	// positionstack reports auth and quota problems with status 200 and an
	// error object in the body.
	if psResp.Error.Code != "" {
		return nil, &geocode.Error{
			Provider: ProviderName,
			Code:     psResp.Error.Code,
			Message:  psResp.Error.Message,
			Err:      geocode.ErrProviderUnavailable,
		}
	}

	if len(psResp.Data) == 0 {
		return nil, &geocode.Error{
			Provider: ProviderName,
			Code:     "NOT_FOUND",
			Message:  "no results for query",
			Err:      geocode.ErrNotFound,
		}
	}

	places := make([]geocode.Place, 0, len(psResp.Data))
	for _, d := range psResp.Data {
		name := d.Label
		if name == "" {
			name = d.Name
		}
		places = append(places, geocode.Place{
			Name: name,
			Lat:  d.Latitude,
			Lng:  d.Longitude,
		})
	}

	return places, nil
}
