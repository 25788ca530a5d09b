package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mstgnz/gopos/handler"
	"github.com/mstgnz/gopos/infra/config"
	"github.com/mstgnz/gopos/infra/metrics"
	"github.com/mstgnz/gopos/infra/middle"
	"github.com/mstgnz/gopos/infra/response"
	v1 "github.com/mstgnz/gopos/router/v1"
	"github.com/rs/zerolog"
)

// Deps holds what the router wires into handlers
type Deps struct {
	Config       *config.AppConfig
	Orchestrator handler.Orchestrator
	Installments handler.InstallmentService
	Catalog      handler.CatalogPinger
	Gateways     handler.GatewayRegistry
	Audit        handler.AuditReader
	RateLimiter  *middle.RateLimiter
	AccessLog    zerolog.Logger
}

// New builds the HTTP handler of the service. /health and /metrics are
// public; everything under /v1 requires the API key.
func New(deps Deps) http.Handler {
	cfg := deps.Config
	validate := config.App().Validator

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middle.LoggingMiddleware(deps.AccessLog))
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(cfg.RequestTimeout()))

	r.Use(middle.SecurityHeadersMiddleware())
	if deps.RateLimiter != nil {
		r.Use(middle.RateLimitMiddleware(deps.RateLimiter))
	}
	r.Use(middle.RequestValidationMiddleware())

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", middle.APIKeyHeader},
		ExposedHeaders:   []string{"Content-Length", "X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := handler.NewHealthHandler(deps.Catalog, cfg.Environment, deps.Gateways.GatewayTypes)
	r.Get("/health", health.CheckHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middle.AuthMiddleware(cfg.APIKey))

		v1.Routes(r, v1.Handlers{
			Transactions: handler.NewTransactionHandler(deps.Orchestrator, validate),
			Installments: handler.NewInstallmentHandler(deps.Installments, validate),
			Gateways:     handler.NewGatewayHandler(deps.Gateways, validate),
			Audit:        handler.NewAuditHandler(deps.Audit),
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found", nil)
	})

	return r
}
