package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFD, strip combining marks, NFC: "Erythrónium" -> "erythronium".
// Apostrophes and the multiplication sign survive, only marks go.
var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold produces the case- and accent-insensitive key used for all store
// lookups. Display strings are never folded.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

var looseRe = regexp.MustCompile(`[.'()\-]`)

// Loose strips the punctuation that routinely differs between nursery
// spelling and catalog spelling (cultivar quotes above all) and
// re-collapses whitespace.
func Loose(folded string) string {
	return strings.Join(strings.Fields(looseRe.ReplaceAllString(folded, " ")), " ")
}
