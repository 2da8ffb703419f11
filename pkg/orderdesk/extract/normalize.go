package extract

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes text for matching: lower-case, drop everything
// outside [a-z0-9 ], collapse whitespace. Punctuation is deleted rather
// than replaced, so "SFO-1L" and "sfo1l" normalize to the same string.
// Catalog codes and aliases go through the same function at matcher build
// time, which keeps matching symmetric.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// containsWord reports whether word occurs as a whole whitespace-delimited
// word of the normalized text.
func containsWord(norm, word string) bool {
	return strings.Contains(" "+norm+" ", " "+word+" ")
}
