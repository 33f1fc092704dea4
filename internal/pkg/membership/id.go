// Package membership formats EHSAS membership IDs.
package membership

import (
	"fmt"
	"regexp"
)

// Prefix starts every membership ID
const Prefix = "EH"

var idPattern = regexp.MustCompile(`^EH\d{2}\d{4,}$`)

// FormatID builds the membership ID for the seq-th approved member of the
// batch that left in year: EH + last two digits of year + seq padded to four digits.
func FormatID(year, seq int) string {
	return fmt.Sprintf("%s%02d%04d", Prefix, year%100, seq)
}

// NextID returns the ID for a batch that already has approvedCount approved members
func NextID(year, approvedCount int) string {
	return FormatID(year, approvedCount+1)
}

// Valid reports whether id has the membership ID shape
func Valid(id string) bool {
	return idPattern.MatchString(id)
}
