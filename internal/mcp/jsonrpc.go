package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ParseJSONRPCRequest parses a JSON-RPC 2.0 request from a reader
// Returns error for invalid JSON or malformed JSON-RPC requests
func ParseJSONRPCRequest(r io.Reader) (*JSONRPCRequest, error) {
	var req JSONRPCRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, &RPCError{
			Code:    ParseError,
			Message: "Invalid JSON",
			Data:    err.Error(),
		}
	}

	// Validate JSON-RPC 2.0 format
	if req.JSONRPC != "2.0" {
		return nil, &RPCError{
			Code:    InvalidRequest,
			Message: "Invalid JSON-RPC version (must be '2.0')",
			Data:    req.JSONRPC,
		}
	}

	if req.Method == "" {
		return nil, &RPCError{
			Code:    InvalidRequest,
			Message: "Missing 'method' field",
		}
	}

	return &req, nil
}

// IsNotification reports whether req expects no response. Any request
// without an id is a notification, whatever its method.
func (req *JSONRPCRequest) IsNotification() bool {
	return req.ID == nil
}

// MetricMethod returns method when it is one the server handles and a fixed
// placeholder otherwise, so client-chosen names never become label values.
func MetricMethod(method string) string {
	switch method {
	case MethodInitialize, MethodInitialized, MethodPing, MethodListTools, MethodCallTool, MethodCallToolOld:
		return method
	}
	if strings.HasPrefix(method, "notifications/") {
		return "notifications/other"
	}
	return "unknown"
}

// ParseCallToolParams extracts call_tool parameters from JSON-RPC params
func ParseCallToolParams(params json.RawMessage) (*CallToolParams, error) {
	if len(params) == 0 {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "Missing parameters for call_tool",
		}
	}

	var toolParams CallToolParams
	if err := json.Unmarshal(params, &toolParams); err != nil {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "Invalid call_tool parameters",
			Data:    err.Error(),
		}
	}

	if toolParams.Name == "" {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "Missing 'name' field in call_tool parameters",
		}
	}

	return &toolParams, nil
}

// ParseInitializeParams reads initialize params. Absent params are accepted.
func ParseInitializeParams(params json.RawMessage) (*InitializeParams, error) {
	var p InitializeParams
	if len(params) == 0 {
		return &p, nil
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "Invalid initialize parameters",
			Data:    err.Error(),
		}
	}
	return &p, nil
}

// NegotiateProtocolVersion echoes the client's revision when supported and
// falls back to ProtocolVersion otherwise.
func NegotiateProtocolVersion(requested string) string {
	if slices.Contains(SupportedProtocolVersions, requested) {
		return requested
	}
	return ProtocolVersion
}

// NewJSONRPCError creates a JSON-RPC error response
func NewJSONRPCError(id interface{}, code int, message string, data interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// NewJSONRPCResult creates a JSON-RPC success response
func NewJSONRPCResult(id interface{}, result interface{}) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

// ErrUnknownTool builds the error returned for a tools/call naming no registered tool.
func ErrUnknownTool(name string) *RPCError {
	return &RPCError{
		Code:    InvalidParams,
		Message: fmt.Sprintf("Unknown tool: %s", name),
		Data:    name,
	}
}
