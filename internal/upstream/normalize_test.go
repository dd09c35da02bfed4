package upstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendmcp/internal/models"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	raw, err := decode([]byte(s))
	require.NoError(t, err)
	return raw
}

func TestNormalize_Array(t *testing.T) {
	raw := decodeJSON(t, `[{"handle":"@a","followers":10},{"handle":"@b","followers":20}]`)

	got := Normalize(raw, InfluencersKey)

	require.True(t, got.OK)
	assert.Empty(t, got.Error)
	out, err := json.Marshal(got.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"influencers":[{"handle":"@a","followers":10},{"handle":"@b","followers":20}]}`, string(out))
}

func TestNormalize_EmptyArray(t *testing.T) {
	got := Normalize(decodeJSON(t, `[]`), InfluencersKey)

	assert.Equal(t, models.Success(map[string]any{"influencers": []any{}}), got)
}

func TestNormalize_ArrayWithoutListKey(t *testing.T) {
	got := Normalize(decodeJSON(t, `[{"tag":"#acme"}]`), "")

	require.True(t, got.OK)
	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"data":[{"tag":"#acme"}]}`, string(out))
}

func TestNormalize_Object(t *testing.T) {
	raw := decodeJSON(t, `{"total":12345678901234567890,"items":[1,2]}`)

	got := Normalize(raw, InfluencersKey)

	require.True(t, got.OK)
	out, err := json.Marshal(got.Data)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[1,2],"total":12345678901234567890}`, string(out))
}

func TestNormalize_OtherShapes(t *testing.T) {
	for _, body := range []string{`null`, `"no results found"`, `42`, `true`} {
		t.Run(body, func(t *testing.T) {
			got := Normalize(decodeJSON(t, body), "")
			assert.Equal(t, models.Success(map[string]any{}), got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true,"data":{}}`, string(out))
		})
	}
}
