package resolve

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"vaxtlistan-service/internal/catalog"
)

// FuzzyOptions controls approximate matching.
type FuzzyOptions struct {
	IncludeSynonyms bool
	// Restrict limits match targets to the given entry ids.
	Restrict map[int64]struct{}
}

// MatchFuzzy runs trigram-index similarity over the catalog, falling back
// to a local substring scan when the index cannot serve. Inputs shorter
// than Params.FuzzyMinLen return no candidates: short botanical fragments
// produce more false positives than hits.
func MatchFuzzy(ctx context.Context, store catalog.Store, name string, p Params, opt FuzzyOptions) ([]catalog.Candidate, error) {
	name = collapseSpaces(name)
	inputLen := utf8.RuneCountInString(name)
	if inputLen < p.FuzzyMinLen {
		return nil, nil
	}

	scored, err := store.Similar(ctx, name, catalog.SimilarOptions{
		Threshold:       p.indexThreshold(inputLen),
		Limit:           p.FuzzyLimit,
		Restrict:        opt.Restrict,
		IncludeSynonyms: opt.IncludeSynonyms,
	})
	if errors.Is(err, catalog.ErrIndexUnavailable) {
		scored, err = fallbackScan(ctx, store, name, p.indexThreshold(inputLen), p.FuzzyLimit, opt)
	}
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Candidate, 0, len(scored))
	for _, sc := range scored {
		out = append(out, catalog.Candidate{Entry: sc.Entry, Score: sc.Score, Strategy: catalog.StrategyFuzzy})
	}
	return out, nil
}

// fallback scorer weights; they sum to 1 so the score stays in [0,1]
const (
	tokenWeight   = 0.45
	containWeight = 0.30
	prefixWeight  = 0.25
)

// fallbackScan is the degraded path when no similarity index is available:
// a full scan scored by token overlap, substring containment and
// common-prefix length.
func fallbackScan(ctx context.Context, store catalog.Store, name string, threshold float64, limit int, opt FuzzyOptions) ([]catalog.Scored, error) {
	q := catalog.Fold(name)
	var out []catalog.Scored
	err := store.ForEach(ctx, func(e *catalog.Entry) bool {
		if e.Name == "" {
			return true
		}
		if e.IsSynonym() && !opt.IncludeSynonyms {
			return true
		}
		if opt.Restrict != nil {
			if _, ok := opt.Restrict[e.ID]; !ok {
				return true
			}
		}
		score := localScore(q, catalog.Fold(e.Name))
		for _, syn := range e.Synonyms {
			if s := localScore(q, catalog.Fold(syn)); s > score {
				score = s
			}
		}
		if score >= threshold {
			out = append(out, catalog.Scored{Entry: e, Score: score})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return len(out[i].Entry.Name) < len(out[j].Entry.Name)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// localScore combines a token-overlap ratio, a containment bonus and a
// common-prefix ratio.
func localScore(q, cand string) float64 {
	if q == "" || cand == "" {
		return 0
	}
	score := tokenWeight * tokenOverlap(q, cand)
	if strings.Contains(cand, q) || strings.Contains(q, cand) {
		score += containWeight
	}
	score += prefixWeight * commonPrefixRatio(q, cand)
	if score > 1 {
		score = 1
	}
	return score
}

func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	shared := 0
	for _, t := range tb {
		if _, ok := set[t]; ok {
			shared++
			delete(set, t)
		}
	}
	max := len(ta)
	if len(tb) > max {
		max = len(tb)
	}
	return float64(shared) / float64(max)
}

func commonPrefixRatio(q, cand string) float64 {
	ra := []rune(q)
	rb := []rune(cand)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return float64(n) / float64(len(ra))
}
