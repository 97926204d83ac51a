package resolve

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"vaxtlistan-service/internal/catalog"
)

// ExactOptions controls the exact/near-exact ladder.
type ExactOptions struct {
	// IncludeSynonyms lets synonym entries be hits themselves (import
	// resolution follows the redirect afterwards). Default mode resolves
	// synonym names straight to the accepted entry.
	IncludeSynonyms bool
}

// standalone taxonomic qualifiers: cv., var., subsp., ssp., f., forma
var qualifierRe = regexp.MustCompile(`(?i)\b(?:cv\.|var\.|subsp\.|ssp\.|f\.|forma)(?:\s+|$)`)

// punctuation that survives Normalize but may differ between input and
// catalog spelling
var punctRe = regexp.MustCompile(`[.'()-]`)

// MatchExact tries equality, cheap structural variants and a guarded
// prefix match, in increasing cost order. First hit wins. A clean miss is
// (nil, "", nil).
func MatchExact(ctx context.Context, store catalog.Store, name string, p Params, opt ExactOptions) (*catalog.Entry, catalog.Strategy, error) {
	name = collapseSpaces(name)
	if name == "" {
		return nil, "", nil
	}

	// 1) direct equality against names and synonym names
	e, err := store.FindExact(ctx, name, opt.IncludeSynonyms)
	if err != nil {
		return nil, "", err
	}
	if e != nil {
		return e, catalog.StrategyExact, nil
	}

	// 2) structural variants, each with the same equality query
	for _, v := range structuralVariants(name) {
		e, err = store.FindExact(ctx, v, opt.IncludeSynonyms)
		if err != nil {
			return nil, "", err
		}
		if e != nil {
			return e, catalog.StrategyVariant, nil
		}
	}

	// 3) prefix match, only for things that look like genus+species and
	// only if the hit is not much longer than the input
	if utf8.RuneCountInString(name) >= p.PrefixMinLen && strings.ContainsRune(name, ' ') {
		e, err = store.FindPrefix(ctx, name, p.PrefixMaxExcess, opt.IncludeSynonyms)
		if err != nil {
			return nil, "", err
		}
		if e != nil {
			return e, catalog.StrategyVariant, nil
		}
	}
	return nil, "", nil
}

// structuralVariants lists the cheap rewrites tried after a direct miss:
// punctuation stripped, taxonomic qualifiers removed, whitespace
// re-collapsed. Variants equal to the input are skipped.
func structuralVariants(name string) []string {
	var out []string
	add := func(v string) {
		v = collapseSpaces(v)
		if v == "" || v == name {
			return
		}
		for _, x := range out {
			if x == v {
				return
			}
		}
		out = append(out, v)
	}
	add(punctRe.ReplaceAllString(name, " "))
	add(qualifierRe.ReplaceAllString(name, " "))
	add(punctRe.ReplaceAllString(qualifierRe.ReplaceAllString(name, " "), " "))
	return out
}
