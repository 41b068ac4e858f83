package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/zones"
)

func newZoneHandler(t *testing.T) (*ZoneHandler, *zones.Service) {
	t.Helper()
	svc := zones.NewService(zones.ServiceConfig{
		Repository: zones.NewMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	return NewZoneHandler(svc), svc
}

func TestCreateAndListZones(t *testing.T) {
	h, _ := newZoneHandler(t)

	body := `{"name": "MG Road", "lat": 12.975, "lng": 77.606, "category": "risk"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/zones", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateZone(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/v1/zones/zone_"))

	var created models.ZoneResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "MG Road", created.Name)
	// Risk category defaults: 2 km radius, HIGH severity.
	assert.Equal(t, 2.0, created.RadiusKm)
	assert.Equal(t, "HIGH", created.Level)

	req = httptest.NewRequest(http.MethodGet, "/v1/zones", nil)
	rec = httptest.NewRecorder()
	h.ListZones(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ZoneListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Zones, 1)
	assert.Equal(t, created.ID, list.Zones[0].ID)
}

func TestCreateZone_Validation(t *testing.T) {
	h, _ := newZoneHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"lat": 12.97, "lng": 77.59}`},
		{"missing coords", `{"name": "X"}`},
		{"lat out of range", `{"name": "X", "lat": 95, "lng": 77.59}`},
		{"bad level", `{"name": "X", "lat": 12.97, "lng": 77.59, "risk_level": "EXTREME"}`},
		{"bad category", `{"name": "X", "lat": 12.97, "lng": 77.59, "category": "weather"}`},
		{"negative radius", `{"name": "X", "lat": 12.97, "lng": 77.59, "radius_km": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/zones", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateZone(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListZones_CategoryFilter(t *testing.T) {
	h, svc := newZoneHandler(t)

	for _, z := range []models.ZoneRequest{
		{Name: "Risk Spot", Lat: ptr(12.97), Lng: ptr(77.59), Category: "risk"},
		{Name: "Accident Stretch", Lat: ptr(12.98), Lng: ptr(77.60), Category: "accident"},
	} {
		_, err := svc.Create(context.Background(), z.Record())
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/zones?category=accident", nil)
	rec := httptest.NewRecorder()
	h.ListZones(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ZoneListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Zones, 1)
	assert.Equal(t, "Accident Stretch", list.Zones[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/v1/zones?category=weather", nil)
	rec = httptest.NewRecorder()
	h.ListZones(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteZone(t *testing.T) {
	h, svc := newZoneHandler(t)

	input := models.ZoneRequest{Name: "MG Road", Lat: ptr(12.975), Lng: ptr(77.606)}
	zone, err := svc.Create(context.Background(), input.Record())
	require.NoError(t, err)

	rec := deleteZone(h, zone.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = deleteZone(h, zone.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func deleteZone(h *ZoneHandler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/v1/zones/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("zoneId", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	h.DeleteZone(rec, req)
	return rec
}

func ptr(f float64) *float64 { return &f }
