package resolve

import (
	"regexp"
	"strings"
	"unicode"
)

// Wrapper characters stripped from the ends of the raw input. Single
// quotes are deliberately absent: a trailing ' is usually the close of a
// cultivar epithet, not a wrapper.
const wrapperCutset = "\"“”„«»[]{}`"

// Smart and typographic single quotes unified to the straight apostrophe;
// cultivar names are conventionally wrapped in single quotes.
var quoteUnifier = strings.NewReplacer(
	"‘", "'", // ‘
	"’", "'", // ’
	"‚", "'", // ‚
	"´", "'", // ´
)

// Everything outside the allow-set becomes a space and is re-collapsed.
var disallowed = regexp.MustCompile(`[^\p{L}\p{N}' ()\-×.]`)

// Normalize canonicalizes a raw plant-name string. Pure and idempotent;
// empty output means "no match possible", never a wildcard.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = collapseSpaces(s)
	s = strings.Trim(s, wrapperCutset)
	s = quoteUnifier.Replace(s)
	s = disallowed.ReplaceAllString(s, " ")
	s = collapseSpaces(s)
	return titleCase(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase capitalizes each word but leaves apostrophe-wrapped cultivar
// epithets with their author casing.
func titleCase(s string) string {
	words := strings.Fields(s)
	inQuote := false
	for i, w := range words {
		opens := !inQuote && strings.HasPrefix(w, "'")
		closes := strings.HasSuffix(w, "'") && len(w) > 1
		switch {
		case opens:
			if !closes {
				inQuote = true
			}
		case inQuote:
			if closes {
				inQuote = false
			}
		default:
			words[i] = titleWord(w)
		}
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	r := []rune(w)
	seen := false
	for i, c := range r {
		if !unicode.IsLetter(c) {
			continue
		}
		if !seen {
			r[i] = unicode.ToUpper(c)
			seen = true
		} else {
			r[i] = unicode.ToLower(c)
		}
	}
	return string(r)
}
