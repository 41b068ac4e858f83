// Package worker runs SafeRoute's background jobs: turning clusters of
// community reports into hazard zones and keeping the zone snapshot warm.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/geo"
	"github.com/saferoute/saferoute/internal/reports"
	"github.com/saferoute/saferoute/internal/zones"
)

// AggregateConfig holds configuration for the report aggregation job.
type AggregateConfig struct {
	// Reports is the report store (required).
	Reports reports.Repository

	// Zones is the zone service used to look up and create zones (required).
	Zones *zones.Service

	// Logger for job operations.
	Logger zerolog.Logger

	// MinReports is the cluster size that promotes a location to a zone
	// (default: 3).
	MinReports int

	// ClusterRadiusKm is the radius used both for clustering reports and for
	// suppressing duplicates near existing zones (default: 0.5).
	ClusterRadiusKm float64
}

// AggregateJob promotes report clusters to hazard zones.
type AggregateJob struct {
	reports         reports.Repository
	zones           *zones.Service
	logger          zerolog.Logger
	minReports      int
	clusterRadiusKm float64
}

// AggregateResult summarizes one aggregation pass.
type AggregateResult struct {
	ReportsSeen  int
	ZonesCreated int
	Duration     time.Duration
}

// NewAggregateJob creates a new report aggregation job.
func NewAggregateJob(cfg AggregateConfig) *AggregateJob {
	minReports := cfg.MinReports
	if minReports == 0 {
		minReports = 3
	}
	radius := cfg.ClusterRadiusKm
	if radius == 0 {
		radius = 0.5
	}

	return &AggregateJob{
		reports:         cfg.Reports,
		zones:           cfg.Zones,
		logger:          cfg.Logger,
		minReports:      minReports,
		clusterRadiusKm: radius,
	}
}

// CheckLocation inspects the neighborhood of a single report and creates a
// zone when the cluster threshold is met. Called per accepted report, so a
// full scan is never needed.
func (j *AggregateJob) CheckLocation(ctx context.Context, rep reports.Report) (bool, error) {
	nearby, err := j.reports.ListNear(ctx, rep.Lat, rep.Lng, j.clusterRadiusKm, j.minReports*2)
	if err != nil {
		return false, fmt.Errorf("listing nearby reports: %w", err)
	}
	if len(nearby) < j.minReports {
		return false, nil
	}

	// An existing zone covering this location absorbs the cluster.
	existing, err := j.zones.ActiveZones(ctx)
	if err != nil {
		return false, fmt.Errorf("loading zones: %w", err)
	}
	loc := geo.Point{Lat: rep.Lat, Lng: rep.Lng}
	for _, z := range existing {
		if geo.Haversine(loc, geo.Point{Lat: z.Lat, Lng: z.Lng}) < z.RadiusKm {
			return false, nil
		}
	}

	rec := zoneRecordFor(rep, len(nearby), j.clusterRadiusKm)
	zone, err := j.zones.Create(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("creating zone: %w", err)
	}

	j.logger.Info().
		Str("zone_id", zone.ID).
		Str("category", string(zone.Category)).
		Int("reports", len(nearby)).
		Msg("promoted report cluster to hazard zone")

	return true, nil
}

// Run performs a full aggregation pass over recent reports. Used by the
// periodic job to catch clusters missed while the worker was down.
func (j *AggregateJob) Run(ctx context.Context) AggregateResult {
	start := time.Now()
	result := AggregateResult{}

	recent, err := j.reports.ListRecent(ctx, 200)
	if err != nil {
		j.logger.Error().Err(err).Msg("aggregation pass failed to list reports")
		result.Duration = time.Since(start)
		return result
	}
	result.ReportsSeen = len(recent)

	for _, rep := range recent {
		created, err := j.CheckLocation(ctx, rep)
		if err != nil {
			j.logger.Warn().Err(err).Str("report_id", rep.ID).Msg("cluster check failed")
			continue
		}
		if created {
			result.ZonesCreated++
		}
	}

	result.Duration = time.Since(start)
	j.logger.Info().
		Int("reports", result.ReportsSeen).
		Int("zones_created", result.ZonesCreated).
		Dur("duration", result.Duration).
		Msg("aggregation pass completed")

	return result
}

// zoneRecordFor builds the zone record for a promoted cluster.
func zoneRecordFor(rep reports.Report, count int, radiusKm float64) zones.Record {
	name := clusterZoneName(rep.Category)
	reason := fmt.Sprintf("%d community reports (%s)", count, rep.Category)
	level := string(zones.LevelMedium)
	category := zones.CategoryRisk
	if rep.Category == reports.CategoryAccident {
		category = zones.CategoryAccident
	}

	return zones.Record{
		Name:     &name,
		Lat:      &rep.Lat,
		Lng:      &rep.Lng,
		RadiusKm: &radiusKm,
		Level:    &level,
		Reason:   &reason,
		Category: category,
	}
}

func clusterZoneName(c reports.Category) string {
	switch c {
	case reports.CategoryAccident:
		return "Reported Accident Cluster"
	case reports.CategoryPoorLighting:
		return "Reported Poorly Lit Area"
	default:
		return "Reported Incident Cluster"
	}
}
