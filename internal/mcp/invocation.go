package mcp

import (
	"context"
	"fmt"

	"trendmcp/internal/dispatch"
)

// ToolInvoker handles MCP tool invocation with parameter validation
type ToolInvoker struct {
	executor   *ToolExecutor
	validators map[string]*SchemaValidator
	tools      []Tool
}

// NewToolInvoker compiles an argument validator for every registered tool.
// A schema that fails to compile or a tool shadowing health_check is a
// configuration error.
func NewToolInvoker(executor *ToolExecutor, registry *dispatch.Registry) (*ToolInvoker, error) {
	ti := &ToolInvoker{
		executor:   executor,
		validators: make(map[string]*SchemaValidator, registry.Len()),
	}

	for _, t := range registry.Tools() {
		if t.Name == HealthCheckToolName {
			return nil, fmt.Errorf("tool name %q is reserved", t.Name)
		}
		validator, err := NewSchemaValidator(argumentSchema(t))
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		ti.validators[t.Name] = validator
		ti.tools = append(ti.tools, ToolDefinition(t))
	}
	ti.tools = append(ti.tools, HealthCheckTool())

	return ti, nil
}

// ListTools returns every tool definition in table order, health_check last.
func (ti *ToolInvoker) ListTools() *ListToolsResult {
	tools := make([]Tool, len(ti.tools))
	copy(tools, ti.tools)
	return &ListToolsResult{Tools: tools}
}

// Has reports whether name is an invocable tool.
func (ti *ToolInvoker) Has(name string) bool {
	if name == HealthCheckToolName {
		return true
	}
	_, ok := ti.validators[name]
	return ok
}

// InvokeTool dispatches to appropriate tool handler based on tool name
func (ti *ToolInvoker) InvokeTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error) {
	if toolName == HealthCheckToolName {
		return ti.executor.ExecuteHealthCheck()
	}

	validator, ok := ti.validators[toolName]
	if !ok {
		return nil, ErrUnknownTool(toolName)
	}

	if err := validator.Validate(args); err != nil {
		return ti.executor.Reject(ctx, toolName, err)
	}

	return ti.executor.ExecuteTool(ctx, toolName, args)
}
