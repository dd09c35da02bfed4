package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	MCP     http.Handler
	Health  HealthReporter
	Metrics http.Handler // nil disables /metrics
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRouter builds the chi router serving /mcp, /health and /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(TimeoutMiddleware(cfg.Timeout, cfg.Logger))

	r.Get("/health", HealthCheckHandler(cfg.Health, cfg.Logger))

	// Streamable HTTP endpoint; the handler rejects anything but POST.
	r.Handle("/mcp", cfg.MCP)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	return r
}
