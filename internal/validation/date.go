package validation

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate accepts a calendar day ("2024-03-01") or a full RFC 3339 timestamp
// and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t.UTC(), nil
}

// Day parses a request date field, reporting failures as a field *Error.
func Day(field, s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, &Error{Field: field, Message: field + " must be a date (YYYY-MM-DD or RFC 3339)"}
	}
	return t, nil
}
