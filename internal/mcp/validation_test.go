package mcp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendmcp/internal/dispatch"
	"trendmcp/internal/models"
)

var keywordTool = dispatch.Tool{
	Name: "get_posts",
	Endpoint: models.EndpointSpec{
		RequiresKeyword: true,
		RequiresDates:   true,
		KeywordPosition: models.KeywordBeforeDates,
	},
}

func TestSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator(argumentSchema(keywordTool))
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]interface{}{"Keyword": "acme", "FromDate": "01-01-2023"}))
	// Presence is checked by the dispatcher, not the schema.
	assert.NoError(t, v.Validate(nil))
	assert.NoError(t, v.Validate(map[string]interface{}{"extra": true}))

	err = v.Validate(map[string]interface{}{"ToDate": float64(20230131)})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "ToDate", ve.Field)
	assert.Contains(t, err.Error(), "invalid parameter: ToDate")
}

func TestToolInputSchema(t *testing.T) {
	schema := ToolInputSchema(keywordTool)
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"Keyword", "FromDate", "ToDate"}, schema["required"])
	assert.Len(t, schema["properties"], 3)

	bare := ToolInputSchema(dispatch.Tool{Name: "get_influencers"})
	assert.NotContains(t, bare, "required")
	assert.Empty(t, bare["properties"])
}
