package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/evraktakip/evraktakip/internal/adapter/http/handler"
	"github.com/evraktakip/evraktakip/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DocumentHandler *handler.DocumentHandler
	ImportHandler   *handler.ImportHandler
	LoanHandler     *handler.LoanHandler
	CustomerHandler *handler.CustomerHandler
	RatesHandler    *handler.RatesHandler
	HealthHandler   *handler.HealthHandler
	RateLimiter     *middleware.RateLimiter
	Logger          zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Documents
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", cfg.DocumentHandler.Create)
			r.Get("/", cfg.DocumentHandler.List)
			r.Get("/export", cfg.DocumentHandler.Export)
			r.Get("/{id}", cfg.DocumentHandler.Get)
			r.Put("/{id}", cfg.DocumentHandler.Update)
			r.Delete("/{id}", cfg.DocumentHandler.Delete)
			r.Post("/{id}/transition", cfg.DocumentHandler.Transition)
			r.Get("/{id}/history", cfg.DocumentHandler.History)
		})

		// Spreadsheet imports
		r.Route("/imports", func(r chi.Router) {
			r.Post("/preview", cfg.ImportHandler.Preview)
			r.Post("/", cfg.ImportHandler.Commit)
		})

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Get("/{id}/summary", cfg.LoanHandler.Summary)
			r.Post("/{id}/payoff", cfg.LoanHandler.Payoff)
			r.Post("/{id}/installments/{installmentID}/pay", cfg.LoanHandler.Pay)
			r.Post("/{id}/installments/{installmentID}/reverse", cfg.LoanHandler.Reverse)
		})

		// Customers
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", cfg.CustomerHandler.Create)
			r.Get("/", cfg.CustomerHandler.List)
			r.Get("/{id}", cfg.CustomerHandler.Get)
			r.Put("/{id}", cfg.CustomerHandler.Update)
			r.Delete("/{id}", cfg.CustomerHandler.Delete)
		})

		// Banks
		r.Route("/banks", func(r chi.Router) {
			r.Post("/", cfg.CustomerHandler.CreateBank)
			r.Get("/", cfg.CustomerHandler.ListBanks)
		})

		// Exchange rates
		r.Get("/rates/{currency}", cfg.RatesHandler.Get)
	})

	return r
}
