// Package main provides the entrypoint for the Suraksha-Net API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/accidents"
	"github.com/Rajdeep-017/suraksha-net/internal/api"
	"github.com/Rajdeep-017/suraksha-net/internal/api/middleware"
	"github.com/Rajdeep-017/suraksha-net/internal/database"
	"github.com/Rajdeep-017/suraksha-net/internal/geocode"
	"github.com/Rajdeep-017/suraksha-net/internal/geocode/nominatim"
	"github.com/Rajdeep-017/suraksha-net/internal/model"
	"github.com/Rajdeep-017/suraksha-net/internal/provider/resilience"
	"github.com/Rajdeep-017/suraksha-net/internal/risk"
	"github.com/Rajdeep-017/suraksha-net/internal/routing"
	"github.com/Rajdeep-017/suraksha-net/internal/routing/osrm"
	"github.com/Rajdeep-017/suraksha-net/internal/scoring"
	"github.com/Rajdeep-017/suraksha-net/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "suraksha-net-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Suraksha-Net API")

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

	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = "model"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
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

	// Load the trained model artifacts. The service cannot score anything
	// without them, so a missing artifact is fatal.
	artifacts, err := model.Load(modelDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", modelDir).Msg("failed to load model artifacts")
	}
	log.Info().Str("dir", modelDir).Msg("model artifacts loaded")

	// Load the accident history. Postgres when configured, CSV otherwise.
	var dataset accidents.Repository
	if os.Getenv("ACCIDENTS_SOURCE") == "postgres" {
		dbConfig := database.ConfigFromEnv()
		pool, connErr := database.Connect(ctx, dbConfig)
		if connErr != nil {
			log.Fatal().Err(connErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		dataset = accidents.NewPostgresRepository(pool)
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("accident dataset backed by postgres")
	} else {
		csvPath := os.Getenv("ACCIDENTS_CSV")
		if csvPath == "" {
			csvPath = "data/accidents.csv"
		}
		repo, loadErr := accidents.NewCSVRepository(csvPath)
		if loadErr != nil {
			log.Fatal().Err(loadErr).Str("path", csvPath).Msg("failed to load accident dataset")
		}
		if repo.Dropped() > 0 {
			log.Warn().Int("dropped", repo.Dropped()).Msg("dropped malformed accident rows")
		}
		dataset = repo
		log.Info().Str("path", csvPath).Msg("accident dataset loaded")
	}

	// Provider health registry shared by the external clients
	registry := resilience.NewRegistry()

	// Routing service over OSRM
	osrmClient := osrm.NewClient(osrm.ClientConfig{
		BaseURL:  os.Getenv("OSRM_BASE_URL"),
		Registry: registry,
		Logger:   log,
	})
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: osrmClient,
		Logger:   log,
	})
	log.Info().Str("provider", routingService.ProviderName()).Msg("routing service initialized")

	// Geocoding service over Nominatim
	nominatimClient := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:  os.Getenv("NOMINATIM_BASE_URL"),
		Registry: registry,
		Logger:   log,
	})
	geocodeService := geocode.NewService(geocode.ServiceConfig{
		Provider: nominatimClient,
		Logger:   log,
	})
	log.Info().Msg("geocode service initialized")

	// Risk predictor and route scorer
	predictor := risk.NewPredictor(artifacts)
	scorer := scoring.NewScorer(scoring.Config{
		Predictor: predictor,
		Logger:    log,
	})
	log.Info().Msg("risk scoring initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Directions:  routingService,
		Geocoder:    geocodeService,
		Ranker:      scorer,
		Predictor:   predictor,
		Dataset:     dataset,
		Registry:    registry,
		Ready:       func() bool { return true },
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
