// Package textcase converts free text into identifiers used in slugs and page ids.
package textcase

import (
	"strings"
	"unicode"
)

// Words splits s at separators, lower-to-upper transitions, acronym boundaries
// ("HTTPServer" -> "HTTP", "Server") and letter/digit boundaries.
func Words(s string) []string {
	runes := []rune(s)
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 {
			prev := current[len(current)-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

// Kebab lower-cases the words of s and joins them with "-".
func Kebab(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}
