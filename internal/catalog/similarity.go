package catalog

import (
	"sort"
	"strings"
)

// trigramSet builds the padded trigram set of a folded name. Strings
// shorter than three runes contribute their padded form as a single gram.
func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	p := " " + s + " "
	r := []rune(p)
	if len(r) < 3 {
		m[p] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

// similarity is normalized Damerau-Levenshtein similarity in [0..1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	d := damerauLevenshtein(a, b)
	m := len([]rune(a))
	if mb := len([]rune(b)); mb > m {
		m = mb
	}
	return 1 - float64(d)/float64(m)
}

// tokenSorted reorders tokens alphabetically so word order does not
// penalize the score ("palmatum acer" == "acer palmatum").
func tokenSorted(s string) string {
	if s == "" {
		return s
	}
	t := strings.Fields(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}

func bestSimilarity(a, b string) float64 {
	x := similarity(a, b)
	if y := similarity(tokenSorted(a), tokenSorted(b)); y > x {
		return y
	}
	return x
}
