// Package utils provides shared sanitization and validation helpers
package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SanitizeInput neutralizes markup-significant characters so user-provided
// text cannot execute if later rendered as markup.
func SanitizeInput(input string) string {
	return html.EscapeString(input)
}

// ValidateEmail reports whether the address matches the standard
// local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// TrimmedLength returns the number of characters in the string with
// surrounding whitespace removed. Counting runes rather than bytes keeps
// length limits fair for non-ASCII input.
func TrimmedLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
