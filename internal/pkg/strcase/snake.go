// Package strcase converts Go identifiers between naming conventions.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts an identifier to snake_case, keeping initialisms
// together: "APIHost" becomes "api_host" and "userID" becomes "user_id".
func ToLowerSnake(s string) string {
	return strings.Join(words(s), "_")
}

// words splits s at lower-to-upper transitions and at the last capital of an
// initialism that starts a new word. Words are lowercased.
func words(s string) []string {
	runes := []rune(s)
	var out []string
	start := 0

	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		if !unicode.IsUpper(cur) {
			continue
		}

		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
			out = append(out, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}

	if start < len(runes) {
		out = append(out, strings.ToLower(string(runes[start:])))
	}

	return out
}
