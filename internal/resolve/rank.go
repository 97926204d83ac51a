package resolve

import (
	"sort"

	"vaxtlistan-service/internal/catalog"
)

// Rank turns raw scored candidates into the minimal "did you mean" list.
// Pure function; inputLen is the rune length of the normalized input.
//
// The truncation is asymmetric and gap-aware: presenting too many
// low-confidence options degrades manual review more than presenting too
// few.
func Rank(cands []catalog.Candidate, inputLen int, p Params) []catalog.Candidate {
	floor := p.minScore(inputLen)
	kept := make([]catalog.Candidate, 0, len(cands))
	for _, c := range cands {
		// degenerate rows are skipped, never propagated
		if c.Entry == nil || c.Entry.Name == "" {
			continue
		}
		if c.Score < floor {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return kept
	}

	// score descending; ties prefer the shorter, more specific name
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return len(kept[i].Entry.Name) < len(kept[j].Entry.Name)
	})

	// an excellent match suppresses all alternatives
	if kept[0].Score >= p.ExcellentScore {
		return kept[:1]
	}
	// a clear leader with a wide gap keeps only the runner-up
	if len(kept) >= 2 && kept[0].Score >= p.GapTopScore && kept[0].Score-kept[1].Score >= p.MinGap {
		return kept[:2]
	}
	max := p.MaxSuggestions
	if kept[0].Score >= p.StrongScore {
		max = p.StrongSuggestions
	}
	if len(kept) > max {
		kept = kept[:max]
	}
	return kept
}
