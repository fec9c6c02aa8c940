// utils/validator.go - Input sanitizing
package utils

import (
	"strings"
	"unicode/utf8"
)

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

// TruncateRunes cuts s to at most max runes so it fits its column.
func TruncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// CleanField sanitizes and truncates a free-text form field.
func CleanField(raw string, max int) string {
	return TruncateRunes(SanitizeInput(raw), max)
}
