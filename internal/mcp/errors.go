package mcp

import (
	"errors"
	"fmt"
	"net/http"
)

// FormatMCPError formats various error types into MCP-compatible JSON-RPC errors
func FormatMCPError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return &RPCError{
			Code:    InvalidParams,
			Message: "Parameter validation failed",
			Data: map[string]interface{}{
				"field":   ve.Field,
				"message": ve.Message,
			},
		}
	}

	return &RPCError{
		Code:    InternalError,
		Message: fmt.Sprintf("Internal error: %s", err.Error()),
	}
}

// HTTPStatusFromError maps JSON-RPC error codes to HTTP status codes
func HTTPStatusFromError(rpcErr *RPCError) int {
	if rpcErr == nil {
		return http.StatusOK
	}

	switch rpcErr.Code {
	case ParseError, InvalidRequest:
		return http.StatusBadRequest
	case MethodNotFound:
		return http.StatusNotFound
	case InvalidParams:
		return http.StatusBadRequest
	case TimeoutExceeded:
		return http.StatusGatewayTimeout
	case InternalError, ServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
