// Package api provides the HTTP API for Suraksha-Net.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Rajdeep-017/suraksha-net/internal/accidents"
	"github.com/Rajdeep-017/suraksha-net/internal/api/handler"
	"github.com/Rajdeep-017/suraksha-net/internal/api/middleware"
	"github.com/Rajdeep-017/suraksha-net/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Directions  handler.DirectionsService
	Geocoder    handler.GeocodeService
	Ranker      handler.RouteRanker
	Predictor   handler.PointPredictor
	Dataset     accidents.Repository
	Registry    *resilience.Registry
	Ready       func() bool
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "suraksha-net-api"
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

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.Ready)
	navigateHandler := handler.NewNavigateHandler(cfg.Directions, cfg.Geocoder, cfg.Ranker, cfg.Dataset, cfg.Logger)
	riskHandler := handler.NewRiskHandler(cfg.Predictor, cfg.Logger)
	analyzeHandler := handler.NewAnalyzeHandler(cfg.Predictor, cfg.Dataset, cfg.Logger)
	accidentsHandler := handler.NewAccidentsHandler(cfg.Dataset, cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// Ops endpoints (public)
	r.Route("/ops", func(r chi.Router) {
		r.Get("/health", opsHandler.HealthCheck)
		r.Get("/ready", opsHandler.ReadinessCheck)
		r.Get("/status", opsHandler.SystemStatus)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Route planning calls out to the routing provider and scores every
		// candidate, so it gets the strict limit.
		r.With(expensiveRateLimit).Post("/navigate-safe", navigateHandler.NavigateSafe)
		r.With(expensiveRateLimit).Post("/analyze-route", analyzeHandler.AnalyzeRoute)

		r.With(standardRateLimit).Post("/predict-risk", riskHandler.PredictRisk)
		r.With(standardRateLimit).Get("/accidents", accidentsHandler.ListAccidents)
	})

	return r
}
