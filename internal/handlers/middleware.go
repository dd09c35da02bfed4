package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"trendmcp/internal/mcp"
)

// CorrelationHeader carries the per-request correlation id.
const CorrelationHeader = "X-Correlation-ID"

// CorrelationIDMiddleware reuses the caller's correlation id or mints one,
// stores it on the request context, and echoes it in the response.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationHeader, id)
		next.ServeHTTP(w, r.WithContext(mcp.WithCorrelationID(r.Context(), id)))
	})
}

// GetCorrelationID returns the id set by CorrelationIDMiddleware.
func GetCorrelationID(ctx context.Context) string {
	return mcp.CorrelationID(ctx)
}

// TimeoutMiddleware bounds every request with a context deadline. Handlers
// observe the deadline through r.Context(); nothing writes on their behalf.
func TimeoutMiddleware(timeout time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logger.Warn("request_timeout",
					"path", r.URL.Path,
					"timeout_ms", timeout.Milliseconds(),
					"remote_addr", r.RemoteAddr,
					"correlation_id", GetCorrelationID(ctx),
				)
			}
		})
	}
}

// LoggingMiddleware logs all incoming requests.
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("http_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"correlation_id", GetCorrelationID(r.Context()),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer for flushing.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
