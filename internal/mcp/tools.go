package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"trendmcp/internal/dispatch"
	"trendmcp/internal/journal"
	"trendmcp/internal/models"
)

// Journal records one entry per tool invocation.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
}

// ToolExecutor handles execution of MCP tools
type ToolExecutor struct {
	dispatcher *dispatch.Dispatcher
	journal    Journal
	logger     *slog.Logger
	now        func() time.Time
}

// NewToolExecutor creates a new tool executor over dispatcher. A nil journal
// discards entries.
func NewToolExecutor(dispatcher *dispatch.Dispatcher, j Journal, logger *slog.Logger) *ToolExecutor {
	if j == nil {
		j = journal.Noop{}
	}
	return &ToolExecutor{
		dispatcher: dispatcher,
		journal:    j,
		logger:     logger.With("component", "tool_executor"),
		now:        time.Now,
	}
}

// ExecuteTool dispatches a data tool and wraps its envelope as MCP content.
func (te *ToolExecutor) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (*CallToolResult, error) {
	start := te.now()
	res := te.dispatcher.Dispatch(ctx, name, args)
	te.record(ctx, name, res, start)
	return NewToolResult(res, !res.OK)
}

// Reject reports arguments that failed schema validation as a failed envelope.
func (te *ToolExecutor) Reject(ctx context.Context, name string, err error) (*CallToolResult, error) {
	res := models.Failure(err.Error())
	te.record(ctx, name, res, te.now())
	return NewToolResult(res, true)
}

// ExecuteHealthCheck reports the fixed-shape status object.
func (te *ToolExecutor) ExecuteHealthCheck() (*CallToolResult, error) {
	return NewToolResult(te.Health(), false)
}

// Health returns the current server status.
func (te *ToolExecutor) Health() models.HealthStatus {
	return models.NewHealthStatus(te.dispatcher.Registry().Len(), te.now())
}

func (te *ToolExecutor) record(ctx context.Context, name string, res models.APIResult, start time.Time) {
	err := te.journal.Record(ctx, journal.Entry{
		Tool:          name,
		OK:            res.OK,
		Error:         res.Error,
		LatencyMs:     te.now().Sub(start).Milliseconds(),
		CorrelationID: CorrelationID(ctx),
		At:            start,
	})
	if err != nil {
		te.logger.WarnContext(ctx, "journal_write_failed", "tool_name", name, "error", err)
	}
}

// NewToolResult serializes v as MCP text content and mirrors it as structured content.
func NewToolResult(v interface{}, isError bool) (*CallToolResult, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, &RPCError{
			Code:    InternalError,
			Message: "Failed to serialize tool result",
			Data:    err.Error(),
		}
	}

	return &CallToolResult{
		Content: []TextContent{
			{
				Type: "text",
				Text: string(text),
			},
		},
		StructuredContent: v,
		IsError:           isError,
	}, nil
}
