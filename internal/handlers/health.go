package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"trendmcp/internal/models"
)

// HealthReporter supplies the current server status.
type HealthReporter interface {
	Health() models.HealthStatus
}

// HealthCheckHandler serves the status object used by container health checks.
func HealthCheckHandler(reporter HealthReporter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(reporter.Health()); err != nil {
			logger.Error("json_encode_failed", "path", r.URL.Path, "error", err)
		}
	}
}
