// Package handler provides HTTP handlers for the SafeRoute API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/geo"
	"github.com/saferoute/saferoute/internal/geocode"
	"github.com/saferoute/saferoute/internal/riskengine"
)

// Resolver turns a location query into a coordinate.
type Resolver interface {
	Resolve(ctx context.Context, query string) (geo.Point, error)
}

// RouteComputer computes scored route options between two points.
type RouteComputer interface {
	ComputeRoutes(ctx context.Context, origin, destination geo.Point, rctx riskengine.Context) []riskengine.RouteResult
}

// RouteHandler handles the route computation endpoint.
type RouteHandler struct {
	resolver Resolver
	engine   RouteComputer
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(resolver Resolver, engine RouteComputer) *RouteHandler {
	return &RouteHandler{resolver: resolver, engine: engine}
}

// ComputeRoutes handles POST /v1/routes - compute scored route options.
func (h *RouteHandler) ComputeRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid route request", errs)
		return
	}

	origin, err := h.resolver.Resolve(r.Context(), input.Source)
	if err != nil {
		writeResolveError(w, r, "source", err)
		return
	}
	destination, err := h.resolver.Resolve(r.Context(), input.Destination)
	if err != nil {
		writeResolveError(w, r, "destination", err)
		return
	}

	routes := h.engine.ComputeRoutes(r.Context(), origin, destination, input.EngineContext())

	response.JSON(w, r, http.StatusOK, models.RouteResponse{
		Source:      models.Point{Lat: origin.Lat, Lng: origin.Lng},
		Destination: models.Point{Lat: destination.Lat, Lng: destination.Lng},
		Routes:      routes,
	})
}

func writeResolveError(w http.ResponseWriter, r *http.Request, field string, err error) {
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		response.BadRequest(w, r, "could not resolve "+field, []models.FieldError{
			{Field: field, Message: "no matching place found", Code: "not_found"},
		})
	default:
		response.ServiceUnavailable(w, r, "geocoding is temporarily unavailable")
	}
}
