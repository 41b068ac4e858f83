// Package main provides the entrypoint for the SafeRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/api"
	"github.com/saferoute/saferoute/internal/api/middleware"
	"github.com/saferoute/saferoute/internal/auth"
	"github.com/saferoute/saferoute/internal/database"
	"github.com/saferoute/saferoute/internal/emergency"
	"github.com/saferoute/saferoute/internal/geocode"
	"github.com/saferoute/saferoute/internal/geocode/nominatim"
	"github.com/saferoute/saferoute/internal/geocode/positionstack"
	"github.com/saferoute/saferoute/internal/provider/resilience"
	"github.com/saferoute/saferoute/internal/reports"
	"github.com/saferoute/saferoute/internal/riskengine"
	"github.com/saferoute/saferoute/internal/routing"
	"github.com/saferoute/saferoute/internal/routing/openrouteservice"
	"github.com/saferoute/saferoute/internal/routing/osrm"
	"github.com/saferoute/saferoute/internal/telemetry"
	"github.com/saferoute/saferoute/internal/zones"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "saferoute-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SafeRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	sampleRatio := 1.0
	if v := os.Getenv("OTEL_SAMPLE_RATIO"); v != "" {
		if parsed, parseErr := strconv.ParseFloat(v, 64); parseErr == nil {
			sampleRatio = parsed
		} else {
			log.Warn().Str("value", v).Msg("invalid OTEL_SAMPLE_RATIO, sampling everything")
		}
	}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
		SampleRatio:    sampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	// Provider health registry shared by all external clients
	registry := resilience.NewRegistry()

	// Initialize zone service
	zoneService := zones.NewService(zones.ServiceConfig{
		Repository: zones.NewPostgresRepository(pool),
		Logger:     log,
	})
	log.Info().Msg("zone service initialized")

	// Initialize routing provider chain: OSRM first, ORS as fallback
	routingProviders := []routing.Provider{
		osrm.NewClient(osrm.ClientConfig{
			BaseURL:  os.Getenv("OSRM_BASE_URL"),
			Registry: registry,
			Logger:   log,
		}),
	}
	if orsKey := os.Getenv("ORS_API_KEY"); orsKey != "" {
		routingProviders = append(routingProviders, openrouteservice.NewClient(openrouteservice.ClientConfig{
			APIKey:   orsKey,
			Registry: registry,
			Logger:   log,
		}))
	} else {
		log.Warn().Msg("ORS_API_KEY not set - routing has no fallback provider")
	}

	routeService := riskengine.NewService(riskengine.ServiceConfig{
		Provider: routing.NewChain(log, routingProviders...),
		Zones:    zoneService,
		Logger:   log,
	})
	log.Info().Int("providers", len(routingProviders)).Msg("route service initialized")

	// Initialize geocoding: positionstack first, Nominatim as fallback
	var geocodeProviders []geocode.Provider
	if psKey := os.Getenv("POSITIONSTACK_API_KEY"); psKey != "" {
		geocodeProviders = append(geocodeProviders, positionstack.NewClient(positionstack.ClientConfig{
			APIKey:   psKey,
			Registry: registry,
			Logger:   log,
		}))
	} else {
		log.Warn().Msg("POSITIONSTACK_API_KEY not set - using Nominatim only")
	}
	geocodeProviders = append(geocodeProviders, nominatim.NewClient(nominatim.ClientConfig{
		Registry: registry,
		Logger:   log,
	}))

	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Providers: geocodeProviders,
		Logger:    log,
	})
	log.Info().Msg("geocoding service initialized")

	// Initialize report service; events go to Pub/Sub when configured
	var reportPublisher reports.Publisher
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topic := os.Getenv("PUBSUB_TOPIC")
		if topic == "" {
			topic = "saferoute-reports"
		}
		psPublisher, pubErr := reports.NewPubSubPublisher(ctx, reports.PubSubPublisherConfig{
			ProjectID: projectID,
			Topic:     topic,
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to initialize pubsub publisher")
		}
		defer func() {
			if closeErr := psPublisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()
		reportPublisher = psPublisher
		log.Info().Str("topic", topic).Msg("report events publishing to Pub/Sub")
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - report events are not published")
	}

	reportService := reports.NewService(reports.ServiceConfig{
		Repository: reports.NewPostgresRepository(pool),
		Publisher:  reportPublisher,
		Logger:     log,
	})
	log.Info().Msg("report service initialized")

	// Initialize emergency service
	emergencyService := emergency.NewService(emergency.ServiceConfig{
		SOS:       emergency.NewPostgresSOSRepository(pool),
		Blacklist: emergency.NewPostgresBlacklistRepository(pool),
		Logger:    log,
	})
	log.Info().Msg("emergency service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		JWTService:       jwtService,
		RouteService:     routeService,
		GeocodeService:   geocodeService,
		ZoneService:      zoneService,
		ReportService:    reportService,
		EmergencyService: emergencyService,
		Pool:             pool,
		Registry:         registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
