// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Email normalizes an email address by trimming whitespace and converting to lowercase.
// This is the canonical way to normalize emails before storage or comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name normalizes a name by trimming whitespace.
// Use text.Fold() for case-insensitive comparison keys.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status normalizes a status value by trimming whitespace and converting to lowercase.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role normalizes a role value by trimming whitespace and converting to lowercase.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

var slugJunk = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a title or user-entered slug into a URL-safe, lowercase,
// hyphen-separated form. Accents are folded ("Café Olé" -> "cafe-ole").
// Returns "" when nothing usable remains.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.TrimSpace(s)) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Trim(slugJunk.ReplaceAllString(b.String(), "-"), "-")
}

// Placement normalizes a display placement (header, banner, ...).
func Placement(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
