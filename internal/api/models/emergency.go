package models

import (
	"github.com/saferoute/saferoute/internal/emergency"
)

// SOSRequest is the request body for POST /v1/sos.
type SOSRequest struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Message     string   `json:"message,omitempty"`
	ContactHint string   `json:"contact_hint,omitempty"`
}

// Validate checks required fields.
func (r *SOSRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Lat == nil {
		errs = append(errs, FieldError{Field: "lat", Message: "lat is required", Code: "required"})
	}
	if r.Lng == nil {
		errs = append(errs, FieldError{Field: "lng", Message: "lng is required", Code: "required"})
	}

	return errs
}

// Event converts the request to an SOS event.
func (r *SOSRequest) Event() emergency.SOSEvent {
	ev := emergency.SOSEvent{
		Message:     r.Message,
		ContactHint: r.ContactHint,
	}
	if r.Lat != nil {
		ev.Lat = *r.Lat
	}
	if r.Lng != nil {
		ev.Lng = *r.Lng
	}
	return ev
}

// SOSResponse is the response body for POST /v1/sos.
type SOSResponse struct {
	Event emergency.SOSEvent `json:"event"`
	// Acknowledged is always true when the event was stored; the client shows
	// immediate confirmation regardless of downstream notification delivery.
	Acknowledged bool `json:"acknowledged"`
}

// BlacklistResponse is the response body for GET /v1/blacklist.
type BlacklistResponse struct {
	Entries []emergency.BlacklistEntry `json:"entries"`
	// Match is set on lookups (?phone=...) when the number is blacklisted.
	Match *emergency.BlacklistEntry `json:"match,omitempty"`
}
