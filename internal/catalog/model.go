package catalog

// Entry is one row of the reference taxonomy ("facit"). Names may carry a
// cultivar epithet in single quotes, e.g. Acer palmatum 'Osakazuki'.
type Entry struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	CommonName string   `json:"commonName,omitempty"`
	SynonymOf  int64    `json:"synonymOf,omitempty"` // 0 = accepted name
	Synonyms   []string `json:"synonyms,omitempty"`  // names redirecting here
	PlantType  string   `json:"plantType,omitempty"`
	Popularity float64  `json:"popularity,omitempty"`
}

// IsSynonym reports whether the entry redirects to an accepted entry and
// must not be surfaced as a standalone match target.
func (e *Entry) IsSynonym() bool { return e.SynonymOf != 0 }

type Strategy string

const (
	StrategyExact   Strategy = "exact"
	StrategyVariant Strategy = "variant"
	StrategyFuzzy   Strategy = "fuzzy"
)

// Candidate is an ephemeral scored match produced by the matchers and
// consumed immediately by the ranker.
type Candidate struct {
	Entry    *Entry   `json:"entry"`
	Score    float64  `json:"score"` // 0..1
	Strategy Strategy `json:"strategy"`
}
