package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"trendmcp/internal/mcp"
)

// SessionHeader is the streamable HTTP session header.
const SessionHeader = "Mcp-Session-Id"

// RPCRecorder counts JSON-RPC requests by method.
type RPCRecorder interface {
	RecordRPC(method string)
}

// MCPInvokeHandler serves MCP JSON-RPC requests over streamable HTTP.
// Each POST carries one request and receives one response, framed as SSE or
// JSON according to the client's Accept header.
type MCPInvokeHandler struct {
	invoker *mcp.ToolInvoker
	info    mcp.Implementation
	timeout time.Duration
	metrics RPCRecorder
	logger  *slog.Logger
}

// NewMCPInvokeHandler creates a new MCP handler. timeout bounds each tools/call.
func NewMCPInvokeHandler(invoker *mcp.ToolInvoker, info mcp.Implementation, timeout time.Duration, metrics RPCRecorder, logger *slog.Logger) *MCPInvokeHandler {
	return &MCPInvokeHandler{
		invoker: invoker,
		info:    info,
		timeout: timeout,
		metrics: metrics,
		logger:  logger.With("handler", "mcp"),
	}
}

// ServeHTTP handles POST /mcp requests
func (h *MCPInvokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// The server never initiates messages, so there is no GET stream.
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	correlationID := GetCorrelationID(r.Context())

	req, err := mcp.ParseJSONRPCRequest(r.Body)
	if err != nil {
		rpcErr := mcp.FormatMCPError(err)
		mcp.LogMCPError(r.Context(), h.logger, "", correlationID, rpcErr.Code, rpcErr.Message)
		mcp.NewResponder(w, r).SendError(nil, rpcErr.Code, rpcErr.Message, rpcErr.Data) //nolint:errcheck
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRPC(mcp.MetricMethod(req.Method))
	}

	if req.IsNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	resp := mcp.NewResponder(w, r)

	switch req.Method {
	case mcp.MethodInitialize:
		h.initialize(w, resp, req, correlationID)
	case mcp.MethodPing:
		resp.SendResult(req.ID, struct{}{}) //nolint:errcheck
	case mcp.MethodListTools:
		resp.SendResult(req.ID, h.invoker.ListTools()) //nolint:errcheck
	case mcp.MethodCallTool, mcp.MethodCallToolOld:
		h.callTool(r.Context(), resp, req, correlationID, start)
	default:
		mcp.LogMCPError(r.Context(), h.logger, req.Method, correlationID, mcp.MethodNotFound, "Unknown method")
		resp.SendError(req.ID, mcp.MethodNotFound, "Unknown method", req.Method) //nolint:errcheck
	}
}

func (h *MCPInvokeHandler) initialize(w http.ResponseWriter, resp mcp.Responder, req *mcp.JSONRPCRequest, correlationID string) {
	params, err := mcp.ParseInitializeParams(req.Params)
	if err != nil {
		rpcErr := mcp.FormatMCPError(err)
		resp.SendError(req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data) //nolint:errcheck
		return
	}

	// Sessions carry no server state; the id only lets clients correlate.
	w.Header().Set(SessionHeader, uuid.NewString())

	h.logger.Info("mcp_initialize",
		"client_name", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"protocol_version", params.ProtocolVersion,
		"correlation_id", correlationID,
	)

	resp.SendResult(req.ID, &mcp.InitializeResult{ //nolint:errcheck
		ProtocolVersion: mcp.NegotiateProtocolVersion(params.ProtocolVersion),
		Capabilities: mcp.ServerCapabilities{
			Tools: &mcp.ToolsCapability{ListChanged: false},
		},
		ServerInfo:   h.info,
		Instructions: "Query keyword mention analytics. Dates use DD-MM-YYYY.",
	})
}

type toolOutcome struct {
	result *mcp.CallToolResult
	err    error
}

func (h *MCPInvokeHandler) callTool(ctx context.Context, resp mcp.Responder, req *mcp.JSONRPCRequest, correlationID string, start time.Time) {
	toolParams, err := mcp.ParseCallToolParams(req.Params)
	if err != nil {
		rpcErr := mcp.FormatMCPError(err)
		mcp.LogMCPError(ctx, h.logger, req.Method, correlationID, rpcErr.Code, rpcErr.Message)
		resp.SendError(req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data) //nolint:errcheck
		return
	}

	mcp.LogMCPRequest(ctx, h.logger, req.Method, toolParams.Name, correlationID)

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	done := make(chan toolOutcome, 1)
	go func() {
		result, err := h.invoker.InvokeTool(ctx, toolParams.Name, toolParams.Arguments)
		done <- toolOutcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		latencyMS := time.Since(start).Milliseconds()

		if out.err != nil {
			rpcErr := mcp.FormatMCPError(out.err)
			mcp.LogMCPError(ctx, h.logger, req.Method, correlationID, rpcErr.Code, rpcErr.Message)
			resp.SendError(req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data) //nolint:errcheck
			return
		}

		mcp.LogMCPSuccess(ctx, h.logger, toolParams.Name, correlationID, !out.result.IsError, latencyMS)
		resp.SendResult(req.ID, out.result) //nolint:errcheck

	case <-ctx.Done():
		latencyMS := time.Since(start).Milliseconds()
		mcp.LogMCPError(ctx, h.logger, req.Method, correlationID, mcp.TimeoutExceeded, "Request timeout")
		resp.SendError(req.ID, mcp.TimeoutExceeded, "Request timeout", map[string]interface{}{ //nolint:errcheck
			"timeout_ms": h.timeout.Milliseconds(),
			"elapsed_ms": latencyMS,
		})
	}
}
