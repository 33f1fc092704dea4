package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Validation rule patterns
var (
	// Email validation pattern, applied to the lower-cased address
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Four digit calendar year
	YearPattern = `^\d{4}$`

	// Mobile numbers: optional +, digits, spaces and dashes
	MobilePattern = `^\+?[0-9][0-9 \-]{6,18}[0-9]$`

	NameMaxLength = 100

	// Earliest plausible batch year
	MinYear = 1900
	MaxYear = 2100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email  *regexp.Regexp
	Year   *regexp.Regexp
	Mobile *regexp.Regexp
}{
	Email:  regexp.MustCompile(EmailPattern),
	Year:   regexp.MustCompile(YearPattern),
	Mobile: regexp.MustCompile(MobilePattern),
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether a normalized email looks deliverable
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsValidYear reports whether year is a four digit year in the accepted range
func IsValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// IsValidMobile reports whether mobile looks like a phone number
func IsValidMobile(mobile string) bool {
	return CompiledPatterns.Mobile.MatchString(strings.TrimSpace(mobile))
}

// IsSingleLine reports whether s is free of control characters, line breaks included
func IsSingleLine(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) < 0
}
