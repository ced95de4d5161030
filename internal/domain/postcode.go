package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// postcodeRe matches the standard UK postcode format: a one- or two-letter
// area, a district ("2", "2A", "33"), then a sector digit and two-letter
// unit, e.g. "EC2A 4NE", "M1 1AE", "DN55 1PT". The separating space is
// optional. Matching is case-insensitive; existence is not checked.
var postcodeRe = regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`)

// IsValidPostcode reports whether text is a well-formed UK postcode.
// Format check only, no I/O.
func IsValidPostcode(text string) bool {
	return postcodeRe.MatchString(strings.TrimSpace(text))
}

// NormalizePostcode uppercases a postcode and strips surrounding whitespace,
// the form upstream providers expect in URLs.
func NormalizePostcode(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}

// InvalidPostcodeError reports a postcode string that failed format
// validation. It is raised before any upstream call is made.
type InvalidPostcodeError struct {
	Postcode string
}

func (e *InvalidPostcodeError) Error() string {
	return fmt.Sprintf("%q is not a valid UK postcode", e.Postcode)
}
