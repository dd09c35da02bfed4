package dispatch

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trendmcp/internal/models"
)

//go:embed endpoints.yaml
var defaultEndpointsYAML []byte

// EndpointDefinition is one row of the static endpoint table.
type EndpointDefinition struct {
	Tool            string                 `yaml:"tool"`
	Key             string                 `yaml:"key"`
	Path            string                 `yaml:"path"`
	Description     string                 `yaml:"description"`
	RequiresKeyword bool                   `yaml:"requiresKeyword"`
	RequiresDates   bool                   `yaml:"requiresDates"`
	AddFrequency    bool                   `yaml:"addFrequency"`
	KeywordPosition models.KeywordPosition `yaml:"keywordPosition"`
	ListKey         string                 `yaml:"listKey"`
}

type endpointTable struct {
	Endpoints []EndpointDefinition `yaml:"endpoints"`
}

// DefaultEndpoints returns the built-in endpoint table.
func DefaultEndpoints() ([]EndpointDefinition, error) {
	return ParseEndpoints(defaultEndpointsYAML)
}

// LoadEndpoints reads an endpoint table from path, or the built-in table when
// path is empty.
func LoadEndpoints(path string) ([]EndpointDefinition, error) {
	if path == "" {
		return DefaultEndpoints()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	return ParseEndpoints(data)
}

// ParseEndpoints decodes a YAML endpoint table. Unknown fields are rejected.
func ParseEndpoints(data []byte) ([]EndpointDefinition, error) {
	var table endpointTable
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("parse endpoints: %w", err)
	}
	if len(table.Endpoints) == 0 {
		return nil, fmt.Errorf("parse endpoints: no endpoints defined")
	}
	return table.Endpoints, nil
}
