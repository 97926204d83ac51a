package fileio

import (
	"regexp"
	"strings"
)

var headerPunct = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey canonicalizes a column name: lower case, NBSP variants to
// plain spaces, punctuation out, whitespace collapsed.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", " ", " ", " ").Replace(s)
	s = headerPunct.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Swedish header fragments that strongly identify a column
var headerHints = []string{"namn", "växt", "vaxt", "antal", "pris", "lager"}

// ResolveColumn finds the real key in a record for a wanted column name.
// Alternatives may be given as "Namn|Växtnamn|Sort". Falls back to
// normalized and containment comparison for composite headers like
// "Pris per styck (kr)".
func ResolveColumn(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// exact as-is
	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	var nWantAll []string
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			if n == "" || nk == "" {
				continue
			}
			if strings.Contains(nk, n) || strings.Contains(n, nk) {
				if len(n) > score {
					score = len(n)
				}
			}
			for _, hint := range headerHints {
				if strings.Contains(n, hint) && strings.Contains(nk, hint) {
					score += 100
				}
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && k < bestKey) {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}
