package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/zones"
)

// ZoneHandler handles hazard zone endpoints.
type ZoneHandler struct {
	zoneService *zones.Service
}

// NewZoneHandler creates a new ZoneHandler.
func NewZoneHandler(zoneService *zones.Service) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService}
}

// ListZones handles GET /v1/zones - list active hazard zones. An optional
// ?category=risk|accident filter narrows the result.
func (h *ZoneHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	var (
		zoneList []zones.Zone
		err      error
	)

	switch category := r.URL.Query().Get("category"); category {
	case "":
		zoneList, err = h.zoneService.ActiveZones(r.Context())
	case "risk", "accident":
		zoneList, err = h.zoneService.ActiveZonesByCategory(r.Context(), zones.Category(category))
	default:
		response.BadRequest(w, r, "invalid category filter", []models.FieldError{
			{Field: "category", Message: "category must be risk or accident", Code: "invalid"},
		})
		return
	}

	if err != nil {
		response.ServiceUnavailable(w, r, "zone store is temporarily unavailable")
		return
	}

	out := make([]models.ZoneResponse, 0, len(zoneList))
	for _, z := range zoneList {
		out = append(out, models.NewZoneResponse(z))
	}
	response.JSON(w, r, http.StatusOK, models.ZoneListResponse{Zones: out})
}

// CreateZone handles POST /v1/zones - create a hazard zone (admin only).
func (h *ZoneHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var input models.ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid zone", errs)
		return
	}

	zone, err := h.zoneService.Create(r.Context(), input.Record())
	if err != nil {
		response.InternalError(w, r, "failed to store zone")
		return
	}

	location := fmt.Sprintf("/v1/zones/%s", zone.ID)
	response.Created(w, r, location, models.NewZoneResponse(zone))
}

// DeleteZone handles DELETE /v1/zones/{zoneId} - remove a hazard zone
// (admin only).
func (h *ZoneHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	zoneID := chi.URLParam(r, "zoneId")
	if zoneID == "" {
		response.BadRequest(w, r, "zoneId is required", nil)
		return
	}

	if err := h.zoneService.Delete(r.Context(), zoneID); err != nil {
		if errors.Is(err, zones.ErrZoneNotFound) {
			response.NotFound(w, r, "zone not found")
			return
		}
		response.InternalError(w, r, "failed to delete zone")
		return
	}

	response.NoContent(w, r)
}
