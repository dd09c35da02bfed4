package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator wraps JSON Schema compilation and validation
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator creates a validator from a JSON schema definition
func NewSchemaValidator(schemaMap map[string]interface{}) (*SchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	schemaJSON, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &SchemaValidator{schema: schema}, nil
}

// Validate validates parameters against the compiled schema.
// A nil argument map is validated as an empty object.
func (v *SchemaValidator) Validate(params map[string]interface{}) error {
	var doc interface{} = map[string]interface{}{}
	if params != nil {
		doc = params
	}

	if err := v.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepestCause(ve)
			return &ValidationError{
				Field:   strings.TrimPrefix(leaf.InstanceLocation, "/"),
				Message: leaf.Message,
				Value:   params,
			}
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// deepestCause follows the first cause chain down to the concrete failure.
func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// ValidationError represents a parameter validation error with details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid arguments: %s", e.Message)
	}
	return fmt.Sprintf("invalid parameter: %s: %s", e.Field, e.Message)
}
