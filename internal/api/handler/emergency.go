package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/emergency"
)

// EmergencyHandler handles SOS and blacklist endpoints.
type EmergencyHandler struct {
	emergencyService *emergency.Service
}

// NewEmergencyHandler creates a new EmergencyHandler.
func NewEmergencyHandler(emergencyService *emergency.Service) *EmergencyHandler {
	return &EmergencyHandler{emergencyService: emergencyService}
}

// TriggerSOS handles POST /v1/sos - record an SOS event.
func (h *EmergencyHandler) TriggerSOS(w http.ResponseWriter, r *http.Request) {
	var input models.SOSRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid sos request", errs)
		return
	}

	ev, err := h.emergencyService.TriggerSOS(r.Context(), input.Event())
	if err != nil {
		if errors.Is(err, emergency.ErrInvalidSOS) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to record sos event")
		return
	}

	response.JSON(w, r, http.StatusOK, models.SOSResponse{Event: ev, Acknowledged: true})
}

// Blacklist handles GET /v1/blacklist - list known scam numbers, or check a
// single number with ?phone=...
func (h *EmergencyHandler) Blacklist(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		match, err := h.emergencyService.CheckNumber(r.Context(), phone)
		if err != nil {
			response.ServiceUnavailable(w, r, "blacklist store is temporarily unavailable")
			return
		}
		response.JSON(w, r, http.StatusOK, models.BlacklistResponse{Entries: []emergency.BlacklistEntry{}, Match: match})
		return
	}

	entries, err := h.emergencyService.Blacklist(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, r, "blacklist store is temporarily unavailable")
		return
	}
	if entries == nil {
		entries = []emergency.BlacklistEntry{}
	}

	response.JSON(w, r, http.StatusOK, models.BlacklistResponse{Entries: entries})
}
