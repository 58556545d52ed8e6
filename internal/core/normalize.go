package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes runes and removes combining marks, turning
// "Médico" into "Medico". NFC recomposition keeps the result in the
// form the rest of the pipeline compares against.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey canonicalizes a header name or categorical value:
// diacritics stripped, trimmed, lower-cased, internal whitespace
// collapsed to a single underscore. The function is idempotent, so
// already-canonical identifiers pass through unchanged.
func NormalizeKey(s string) string {
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

// SameCategory compares two categorical values ignoring case, accents
// and surrounding whitespace. Used for semantic branching such as the
// self-pay ("particular") match, never for display.
func SameCategory(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}
