package upstream

import "trendmcp/internal/models"

// InfluencersKey is the list field of the influencer listing, the only
// endpoint documented to answer with a bare array.
const InfluencersKey = "influencers"

// Normalize maps a decoded upstream body onto the canonical envelope.
// Objects pass through verbatim. An array is wrapped under listKey when the
// endpoint declares one and passed through as-is otherwise. Anything else
// (null, scalars) becomes an empty object.
func Normalize(raw any, listKey string) models.APIResult {
	switch v := raw.(type) {
	case []any:
		if listKey == "" {
			return models.Success(v)
		}
		return models.Success(map[string]any{listKey: v})
	case map[string]any:
		return models.Success(v)
	default:
		return models.Success(map[string]any{})
	}
}
