package dataset

import "strings"

// countryAliases maps trimmed-lowercase country spellings, including
// accented and locale variants, to one canonical English exonym.
// Values not found here fall back to title-casing.
var countryAliases = map[string]string{
	"espana":  "Spain",
	"españa":  "Spain",
	"espanya": "Spain",
	"spain":   "Spain",

	"mexico": "Mexico",
	"méxico": "Mexico",

	"peru": "Peru",
	"perú": "Peru",

	"argentina": "Argentina",
	"chile":     "Chile",
	"colombia":  "Colombia",
	"venezuela": "Venezuela",

	"brasil": "Brazil",
	"brazil": "Brazil",
}

// CanonicalCountry maps a raw country spelling to its canonical
// display name. Alias-equivalent inputs always produce the same
// output; unknown values are title-cased as a best effort so they
// still group consistently. Idempotent: canonical names round-trip
// through their own lowercase form in the alias table or title-case
// unchanged.
func CanonicalCountry(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := countryAliases[key]; ok {
		return canonical
	}
	return titleCase(key)
}
