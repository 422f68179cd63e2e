package utils

import (
	"strings"
	"unicode"
)

// NormalizeText lowercases text and drops every character that is neither a
// word character nor whitespace.
func NormalizeText(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PrepareQueryTerms splits a search query into normalized terms.
func PrepareQueryTerms(query string) []string {
	return strings.Fields(NormalizeText(query))
}

// TitleMatchesQuery reports whether any term occurs in the normalized title.
// Matching is by substring, which also covers terms at a word start, so
// "elect" matches both "election" and "reelection".
func TitleMatchesQuery(normalizedTitle string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(normalizedTitle, term) {
			return true
		}
	}
	return false
}

// FirstNonEmpty returns the first value that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
