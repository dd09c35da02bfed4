package models

// KeywordPosition controls where Keyword lands relative to FromDate/ToDate.
type KeywordPosition string

const (
	KeywordBeforeDates KeywordPosition = "BEFORE_DATES"
	KeywordAfterDates  KeywordPosition = "AFTER_DATES"
)

// Valid reports whether p is one of the known positions.
func (p KeywordPosition) Valid() bool {
	return p == KeywordBeforeDates || p == KeywordAfterDates
}

// EndpointSpec describes one upstream data category.
// Instances are built once at startup and never mutated.
type EndpointSpec struct {
	Key             string
	URLTemplate     string
	RequiresKeyword bool
	RequiresDates   bool
	AddFrequency    bool
	KeywordPosition KeywordPosition

	// ListKey names the field a bare JSON array response is wrapped under.
	// Empty for endpoints that answer with an object.
	ListKey string
}
