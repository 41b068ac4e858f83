package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/reports"
)

// ReportHandler handles community incident report endpoints.
type ReportHandler struct {
	reportService *reports.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *reports.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SubmitReport handles POST /v1/reports - submit an incident report.
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var input models.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid report", errs)
		return
	}

	rep, err := h.reportService.Submit(r.Context(), input.Report())
	if err != nil {
		if errors.Is(err, reports.ErrInvalidReport) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to store report")
		return
	}

	location := fmt.Sprintf("/v1/reports/%s", rep.ID)
	response.Created(w, r, location, rep)
}

// ListReports handles GET /v1/reports - list recent incident reports.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "invalid limit", []models.FieldError{
				{Field: "limit", Message: "limit must be a positive integer", Code: "invalid"},
			})
			return
		}
		limit = parsed
	}

	list, err := h.reportService.Recent(r.Context(), limit)
	if err != nil {
		response.ServiceUnavailable(w, r, "report store is temporarily unavailable")
		return
	}
	if list == nil {
		list = []reports.Report{}
	}

	response.JSON(w, r, http.StatusOK, models.ReportListResponse{Reports: list})
}
