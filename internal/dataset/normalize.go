package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding whitespace, lowercases, and strips
// diacritics by decomposing to base characters and discarding
// combining marks and any non-ASCII remnants. Idempotent.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	fold := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(fold, s)
	if err != nil {
		return s
	}
	return out
}

// titleCase title-cases a string without language-specific casing
// rules. Casers are stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
