package mcp

import (
	"trendmcp/internal/dispatch"
	"trendmcp/internal/query"
)

// HealthCheckToolName is the meta tool reporting server status.
const HealthCheckToolName = "health_check"

// ToolInputSchema returns the advertised JSON Schema for a tool's arguments.
func ToolInputSchema(t dispatch.Tool) map[string]interface{} {
	schema := argumentSchema(t)
	if required := requiredArguments(t); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// argumentSchema checks argument types only. Presence and date validity are
// left to the dispatcher so callers get its error messages.
func argumentSchema(t dispatch.Tool) map[string]interface{} {
	properties := map[string]interface{}{}
	if t.Endpoint.RequiresKeyword {
		properties[query.ParamKeyword] = map[string]interface{}{
			"type":        "string",
			"description": "Search keyword, brand or topic (e.g., acme)",
		}
		properties[query.ParamFromDate] = map[string]interface{}{
			"type":        "string",
			"description": "Start date in DD-MM-YYYY format (e.g., 01-01-2023)",
		}
		properties[query.ParamToDate] = map[string]interface{}{
			"type":        "string",
			"description": "End date in DD-MM-YYYY format (e.g., 31-01-2023)",
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
}

func requiredArguments(t dispatch.Tool) []string {
	var required []string
	if t.Endpoint.RequiresKeyword {
		required = append(required, query.ParamKeyword)
	}
	if t.Endpoint.RequiresDates {
		required = append(required, query.ParamFromDate, query.ParamToDate)
	}
	return required
}

// ToolDefinition returns the complete MCP Tool definition for t
func ToolDefinition(t dispatch.Tool) Tool {
	return Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: ToolInputSchema(t),
	}
}

// HealthCheckTool returns the MCP Tool definition for health_check
func HealthCheckTool() Tool {
	return Tool{
		Name:        HealthCheckToolName,
		Description: "Report server status, the number of configured endpoints, and the current time",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}
