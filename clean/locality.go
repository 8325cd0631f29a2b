package clean

import (
	"strings"
	"unicode"
)

// stopTokens are removed from locality text as literal substrings, in this
// order. Substring removal is deliberate: embedded occurrences inside other
// words are stripped too, and removal order matters when tokens overlap.
var stopTokens = []string{
	"AREA", "NAGPUR", "CITY", "DISTRICT",
	"MAHARASHTRA", "ROAD", "PHASE",
	"NEAR", "OPP", "OPPOSITE",
}

// Canonicalize maps noisy free-text location strings to a canonical
// uppercase locality key. Returns "" when nothing meaningful remains;
// callers drop such rows.
func Canonicalize(text string) string {
	s := strings.ToUpper(text)

	for _, tok := range stopTokens {
		s = strings.ReplaceAll(s, tok, "")
	}

	// Keep Latin letters and spaces only; digits and punctuation go.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
