package worker_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/reports"
	"github.com/saferoute/saferoute/internal/worker"
	"github.com/saferoute/saferoute/internal/zones"
)

func newAggregateFixture(t *testing.T) (*worker.AggregateJob, reports.Repository, *zones.Service) {
	t.Helper()
	repo := reports.NewMemoryRepository()
	zoneService := zones.NewService(zones.ServiceConfig{
		Repository: zones.NewMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	job := worker.NewAggregateJob(worker.AggregateConfig{
		Reports: repo,
		Zones:   zoneService,
		Logger:  zerolog.Nop(),
	})
	return job, repo, zoneService
}

func seedReports(t *testing.T, repo reports.Repository, n int, lat, lng float64, category reports.Category) reports.Report {
	t.Helper()
	var last reports.Report
	for i := 0; i < n; i++ {
		last = reports.Report{
			ID:         fmt.Sprintf("rpt_%012d", i),
			Lat:        lat,
			Lng:        lng,
			Category:   category,
			ReportedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Create(context.Background(), last))
	}
	return last
}

func TestCheckLocation_PromotesCluster(t *testing.T) {
	job, repo, zoneService := newAggregateFixture(t)
	rep := seedReports(t, repo, 3, 12.97, 77.59, reports.CategoryTheft)

	created, err := job.CheckLocation(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, created)

	active, err := zoneService.ActiveZones(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Reported Incident Cluster", active[0].Name)
	assert.Equal(t, zones.CategoryRisk, active[0].Category)
	assert.Equal(t, zones.LevelMedium, active[0].Level)
	assert.Contains(t, active[0].Reason, "3 community reports")
}

func TestCheckLocation_BelowThreshold(t *testing.T) {
	job, repo, zoneService := newAggregateFixture(t)
	rep := seedReports(t, repo, 2, 12.97, 77.59, reports.CategoryTheft)

	created, err := job.CheckLocation(context.Background(), rep)
	require.NoError(t, err)
	assert.False(t, created)

	active, err := zoneService.ActiveZones(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCheckLocation_ExistingZoneAbsorbsCluster(t *testing.T) {
	job, repo, zoneService := newAggregateFixture(t)

	name := "MG Road"
	lat, lng := 12.97, 77.59
	_, err := zoneService.Create(context.Background(), zones.Record{
		Name: &name,
		Lat:  &lat,
		Lng:  &lng,
	})
	require.NoError(t, err)

	rep := seedReports(t, repo, 5, 12.9705, 77.5905, reports.CategoryTheft)

	created, err := job.CheckLocation(context.Background(), rep)
	require.NoError(t, err)
	assert.False(t, created)

	active, err := zoneService.ActiveZones(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCheckLocation_AccidentCategory(t *testing.T) {
	job, repo, zoneService := newAggregateFixture(t)
	rep := seedReports(t, repo, 4, 12.90, 77.50, reports.CategoryAccident)

	created, err := job.CheckLocation(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, created)

	active, err := zoneService.ActiveZones(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, zones.CategoryAccident, active[0].Category)
	assert.Equal(t, "Reported Accident Cluster", active[0].Name)
}

func TestRun_SweepsRecentReports(t *testing.T) {
	job, repo, zoneService := newAggregateFixture(t)

	// Two independent clusters far apart, one lone report.
	seedReports(t, repo, 3, 12.97, 77.59, reports.CategoryTheft)
	seedReports(t, repo, 3, 13.10, 77.70, reports.CategoryPoorLighting)
	seedReports(t, repo, 1, 12.50, 77.00, reports.CategoryHarassment)

	result := job.Run(context.Background())
	assert.Equal(t, 7, result.ReportsSeen)
	assert.Equal(t, 2, result.ZonesCreated)

	active, err := zoneService.ActiveZones(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
