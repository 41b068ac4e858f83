// Package api provides the HTTP API for SafeRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/api/handler"
	"github.com/saferoute/saferoute/internal/api/middleware"
	"github.com/saferoute/saferoute/internal/auth"
	"github.com/saferoute/saferoute/internal/emergency"
	"github.com/saferoute/saferoute/internal/geocode"
	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/reports"
	"github.com/saferoute/saferoute/internal/riskengine"
	"github.com/saferoute/saferoute/internal/zones"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	JWTService       *auth.JWTService
	RouteService     *riskengine.Service
	GeocodeService   *geocode.Service
	ZoneService      *zones.Service
	ReportService    *reports.Service
	EmergencyService *emergency.Service
	Pool             *pgxpool.Pool
	Registry         *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "saferoute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON request bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Pool, cfg.Registry)
	routeHandler := handler.NewRouteHandler(cfg.GeocodeService, cfg.RouteService)
	zoneHandler := handler.NewZoneHandler(cfg.ZoneService)
	reportHandler := handler.NewReportHandler(cfg.ReportService)
	emergencyHandler := handler.NewEmergencyHandler(cfg.EmergencyService)
	searchHandler := handler.NewSearchHandler(cfg.GeocodeService)

	// Admin auth middleware guards zone management only
	adminAuth := middleware.AdminAuth(cfg.JWTService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min
	sosRateLimit := middleware.RateLimitByIP(middleware.SOSRateLimit)             // 10 req/min
	adminRateLimit := middleware.RateLimitByAdmin(middleware.StandardRateLimit)   // keyed per admin subject

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires admin credentials
			r.With(adminAuth, adminRateLimit).Get("/status", opsHandler.SystemStatus)
		})

		// Route computation - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes", routeHandler.ComputeRoutes)

		// Hazard zones: reading is public, curation is admin only
		r.Route("/zones", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", zoneHandler.ListZones)
			r.With(adminAuth, adminRateLimit).Post("/", zoneHandler.CreateZone)
			r.With(adminAuth, adminRateLimit).Delete("/{zoneId}", zoneHandler.DeleteZone)
		})

		// Community incident reports (public)
		r.Route("/reports", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/", reportHandler.ListReports)
			r.Post("/", reportHandler.SubmitReport)
		})

		// SOS (public, own rate limit tier)
		r.With(sosRateLimit).Post("/sos", emergencyHandler.TriggerSOS)

		// Scam number blacklist (public)
		r.With(standardRateLimit).Get("/blacklist", emergencyHandler.Blacklist)

		// Place search (public)
		r.With(standardRateLimit).Get("/search", searchHandler.SearchPlaces)
	})

	return r
}
