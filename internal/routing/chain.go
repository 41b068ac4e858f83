package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Chain is an ordered list of provider attempts. Each request is tried
// against the providers in order; the first success wins and later providers
// are never consulted. Only when every provider fails does the chain return
// an error, aggregating the per-provider failures.
type Chain struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewChain creates a provider chain. Order determines fallback priority.
func NewChain(logger zerolog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Name returns a composite identifier listing the chained providers.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Route tries each provider in order and returns the first success.
func (c *Chain) Route(ctx context.Context, req RouteRequest) (*RouteResponse, error) {
	if len(c.providers) == 0 {
		return nil, fmt.Errorf("no providers configured: %w", ErrProviderUnavailable)
	}

	var attempts []error
	for _, p := range c.providers {
		resp, err := p.Route(ctx, req)
		if err == nil {
			if len(resp.Routes) == 0 {
				attempts = append(attempts, fmt.Errorf("%s: %w", p.Name(), ErrNoRouteFound))
				continue
			}
			return resp, nil
		}

		c.logger.Warn().
			Err(err).
			Str("provider", p.Name()).
			Msg("provider attempt failed, trying next")
		attempts = append(attempts, fmt.Errorf("%s: %w", p.Name(), err))

		// Bad input will fail identically everywhere; stop early.
		if errors.Is(err, ErrInvalidCoordinates) {
			break
		}
	}

	return nil, errors.Join(attempts...)
}
