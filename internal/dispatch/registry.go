package dispatch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"trendmcp/internal/models"
)

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrDuplicateTool   = errors.New("duplicate tool")
	ErrInvalidEndpoint = errors.New("invalid endpoint definition")
)

// Tool binds an invocable tool name to its upstream endpoint.
type Tool struct {
	Name        string
	Description string
	Endpoint    models.EndpointSpec
}

// Registry is the read-only tool table built once at startup.
type Registry struct {
	tools  []Tool
	byName map[string]int
}

// NewRegistry resolves every definition against baseURL. Any inconsistency in
// the table is a configuration error and aborts construction.
func NewRegistry(baseURL string, defs []EndpointDefinition) (*Registry, error) {
	base, err := url.Parse(baseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be an absolute http(s) URL", ErrInvalidEndpoint, baseURL)
	}
	prefix := strings.TrimRight(baseURL, "/")

	r := &Registry{
		tools:  make([]Tool, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for _, def := range defs {
		if err := checkDefinition(def); err != nil {
			return nil, err
		}
		if _, exists := r.byName[def.Tool]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, def.Tool)
		}

		position := def.KeywordPosition
		if position == "" {
			position = models.KeywordAfterDates
		}

		r.byName[def.Tool] = len(r.tools)
		r.tools = append(r.tools, Tool{
			Name:        def.Tool,
			Description: def.Description,
			Endpoint: models.EndpointSpec{
				Key:             def.Key,
				URLTemplate:     prefix + "/" + strings.TrimLeft(def.Path, "/"),
				RequiresKeyword: def.RequiresKeyword,
				RequiresDates:   def.RequiresDates,
				AddFrequency:    def.AddFrequency,
				KeywordPosition: position,
				ListKey:         def.ListKey,
			},
		})
	}
	return r, nil
}

func checkDefinition(def EndpointDefinition) error {
	switch {
	case strings.TrimSpace(def.Tool) == "":
		return fmt.Errorf("%w: tool name is required", ErrInvalidEndpoint)
	case strings.TrimSpace(def.Key) == "":
		return fmt.Errorf("%w: %s: key is required", ErrInvalidEndpoint, def.Tool)
	case strings.TrimSpace(def.Path) == "":
		return fmt.Errorf("%w: %s: path is required", ErrInvalidEndpoint, def.Tool)
	case def.KeywordPosition != "" && !def.KeywordPosition.Valid():
		return fmt.Errorf("%w: %s: unknown keyword position %q", ErrInvalidEndpoint, def.Tool, def.KeywordPosition)
	case def.RequiresDates && !def.RequiresKeyword:
		// Dates are only ever sent together with a keyword.
		return fmt.Errorf("%w: %s: requiresDates without requiresKeyword", ErrInvalidEndpoint, def.Tool)
	}
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Tools returns the registered tools in table order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Len returns the number of configured endpoints.
func (r *Registry) Len() int {
	return len(r.tools)
}
