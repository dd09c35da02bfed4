package mcp

import (
	"context"
	"log/slog"
)

type correlationKey struct{}

// WithCorrelationID stores id on ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// LogMCPRequest logs an MCP request with structured fields
func LogMCPRequest(ctx context.Context, logger *slog.Logger, method string, tool string, correlationID string) {
	logger.InfoContext(ctx, "mcp_request",
		"component", "mcp-provider",
		"method", method,
		"tool_name", tool,
		"correlation_id", correlationID,
	)
}

// LogMCPSuccess logs a completed tool call. ok mirrors the result envelope.
func LogMCPSuccess(ctx context.Context, logger *slog.Logger, tool string, correlationID string, ok bool, latencyMS int64) {
	logger.InfoContext(ctx, "mcp_success",
		"component", "mcp-provider",
		"tool_name", tool,
		"correlation_id", correlationID,
		"ok", ok,
		"latency_ms", latencyMS,
	)
}

// LogMCPError logs MCP request errors with context
func LogMCPError(ctx context.Context, logger *slog.Logger, method string, correlationID string, errorCode int, errorMsg string) {
	logger.ErrorContext(ctx, "mcp_error",
		"component", "mcp-provider",
		"method", method,
		"correlation_id", correlationID,
		"error_code", errorCode,
		"error_message", errorMsg,
	)
}
