package dispatch

import (
	"errors"
	"fmt"

	"trendmcp/internal/query"
)

// MissingParameterError reports a required argument that was absent or blank.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return "missing parameter: " + e.Name
}

// InvalidParameterError reports an argument of the wrong JSON type.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter: %s %s", e.Name, e.Reason)
}

// IsValidation reports whether err was raised before any network call
// because of bad or missing input.
func IsValidation(err error) bool {
	var missing *MissingParameterError
	var invalid *InvalidParameterError
	var date *query.InvalidDateError
	return errors.As(err, &missing) || errors.As(err, &invalid) || errors.As(err, &date)
}
