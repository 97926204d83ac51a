package resolve

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"vaxtlistan-service/internal/catalog"
)

// Resolver composes the pipeline all call sites share:
// normalize -> exact (short-circuit) -> fuzzy -> rank.
type Resolver struct {
	store  catalog.Store
	params Params
	log    zerolog.Logger
}

func NewResolver(store catalog.Store, params Params, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, params: params, log: log}
}

func (r *Resolver) Params() Params { return r.params }

// ResolveOptions is passed through to the matchers.
type ResolveOptions struct {
	IncludeSynonyms bool
	Restrict        map[int64]struct{}
}

// Resolution is the outcome for one input string. Entry is set on an
// exact/near-exact hit; Suggestions carries the ranked did-you-mean list
// otherwise.
type Resolution struct {
	Input       string
	Normalized  string
	Entry       *catalog.Entry
	Strategy    catalog.Strategy
	Suggestions []catalog.Candidate
}

// Resolve runs the pipeline for one raw name. The returned error reports
// a store failure; an empty Resolution with a nil error is an honest
// "no match".
func (r *Resolver) Resolve(ctx context.Context, raw string, opt ResolveOptions) (Resolution, error) {
	res := Resolution{Input: raw, Normalized: Normalize(raw)}
	if res.Normalized == "" {
		return res, nil
	}

	entry, strategy, err := MatchExact(ctx, r.store, res.Normalized, r.params, ExactOptions{
		IncludeSynonyms: opt.IncludeSynonyms,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("name", res.Normalized).Msg("exact lookup failed")
		return res, err
	}
	if entry != nil {
		res.Entry = entry
		res.Strategy = strategy
		return res, nil
	}

	cands, err := MatchFuzzy(ctx, r.store, res.Normalized, r.params, FuzzyOptions{
		IncludeSynonyms: opt.IncludeSynonyms,
		Restrict:        opt.Restrict,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("name", res.Normalized).Msg("fuzzy lookup failed")
		return res, err
	}
	res.Suggestions = Rank(cands, utf8.RuneCountInString(res.Normalized), r.params)
	return res, nil
}
