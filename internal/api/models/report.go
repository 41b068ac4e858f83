package models

import (
	"github.com/saferoute/saferoute/internal/reports"
)

// ReportRequest is the request body for POST /v1/reports.
type ReportRequest struct {
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
}

// Validate checks required fields.
func (r *ReportRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Lat == nil {
		errs = append(errs, FieldError{Field: "lat", Message: "lat is required", Code: "required"})
	}
	if r.Lng == nil {
		errs = append(errs, FieldError{Field: "lng", Message: "lng is required", Code: "required"})
	}
	if !reports.Category(r.Category).Valid() {
		errs = append(errs, FieldError{Field: "category", Message: "category must be one of harassment, theft, accident, poor_lighting, other", Code: "invalid"})
	}

	return errs
}

// Report converts the request to a report for submission.
func (r *ReportRequest) Report() reports.Report {
	rep := reports.Report{
		Category:    reports.Category(r.Category),
		Description: r.Description,
	}
	if r.Lat != nil {
		rep.Lat = *r.Lat
	}
	if r.Lng != nil {
		rep.Lng = *r.Lng
	}
	return rep
}

// ReportListResponse is the response body for GET /v1/reports.
type ReportListResponse struct {
	Reports []reports.Report `json:"reports"`
}
