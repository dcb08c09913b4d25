// Package http assembles the REST interface: router, middleware chain, and
// server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/prometheus"
	"github.com/veridocs/kycengine/internal/interfaces/http/handlers"
	"github.com/veridocs/kycengine/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	RunHandler    *handlers.RunHandler
	HealthHandler *handlers.HealthHandler
	Logger        logging.Logger
	Metrics       *prometheus.Metrics
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.HTTPMetrics(cfg.Metrics))
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/runs", cfg.RunHandler.Create)
		api.Get("/customers/{customerID}/runs", cfg.RunHandler.ListByCustomer)

		api.Route("/runs/{runID}", func(run chi.Router) {
			run.Get("/", cfg.RunHandler.Get)
			run.Post("/documents", cfg.RunHandler.UploadDocument)
			run.Post("/validate", cfg.RunHandler.Validate)
			run.Get("/profile", cfg.RunHandler.GetProfile)
			run.Get("/validation", cfg.RunHandler.GetValidation)
			run.Get("/trace", cfg.RunHandler.GetTrace)
		})
	})

	return r
}
