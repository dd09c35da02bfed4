package query

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the only calendar format the upstream API accepts (DD-MM-YYYY).
const DateLayout = "02-01-2006"

var datePattern = regexp.MustCompile(`^[0-9]{2}-[0-9]{2}-[0-9]{4}$`)

// InvalidDateError is returned when a date string is malformed or names a day
// that does not exist.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: expected a calendar date in DD-MM-YYYY format", e.Value)
}

// ValidateDate checks s against DateLayout and returns it unchanged.
// The literal is never reformatted because the upstream API expects it verbatim.
func ValidateDate(s string) (string, error) {
	if !datePattern.MatchString(s) {
		return "", &InvalidDateError{Value: s}
	}

	// time.Parse rejects day/month values outside the calendar (31-02, 00-01, 15-13).
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Year() < 1 {
		return "", &InvalidDateError{Value: s}
	}

	return s, nil
}
