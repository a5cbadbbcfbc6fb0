package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/demobank/internal/adapter/http/handler"
	"github.com/iho/demobank/internal/adapter/http/middleware"
	"github.com/iho/demobank/internal/domain"
	"github.com/iho/demobank/internal/infrastructure/auth"
	"github.com/iho/demobank/internal/infrastructure/metrics"
	"github.com/iho/demobank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransferHandler    *handler.TransferHandler
	TransactionHandler *handler.TransactionHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler

	// IdempotencyStore enables Idempotency-Key handling when set.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// RateLimiter throttles /api/v1 per client IP when set.
	RateLimiter *middleware.RateLimiter
	// JWTManager enables bearer token authentication when set.
	JWTManager *auth.JWTManager

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	// MetricsHandler is served at /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	adminOnly := func(next http.Handler) http.Handler { return next }
	if cfg.JWTManager != nil {
		adminOnly = middleware.RequireRole(domain.RoleAdmin)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		if cfg.JWTManager != nil {
			r.Use(middleware.Authenticate(cfg.JWTManager, cfg.Metrics))
		}
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Metrics).Wrap)
		}

		r.Post("/transfers", cfg.TransferHandler.Create)

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.With(adminOnly).Post("/", cfg.AccountHandler.Create)
			r.Get("/summary", cfg.AccountHandler.Summary)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.With(adminOnly).Patch("/{id}/status", cfg.AccountHandler.UpdateStatus)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByAccount)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.With(adminOnly).Post("/{id}/status", cfg.TransactionHandler.UpdateStatus)
		})

		r.With(adminOnly).Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
