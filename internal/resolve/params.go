package resolve

// Params carries the tuning knobs of the matching pipeline. The defaults
// are empirically tuned against real nursery data; treat them as
// recalibration candidates, not constants.
type Params struct {
	// ranking
	ShortInputLen     int     // inputs shorter than this count as "short"
	MinScoreShort     float64 // rank floor for short inputs
	MinScoreLong      float64 // rank floor otherwise
	ExcellentScore    float64 // collapse to a single candidate at or above
	StrongScore       float64 // a strong leader caps the list at StrongSuggestions
	GapTopScore       float64 // minimum top score for the gap cutoff
	MinGap            float64 // 1st-to-2nd gap that truncates to two
	MaxSuggestions    int
	StrongSuggestions int

	// exact matching
	PrefixMinLen    int // prefix match only for inputs at least this long
	PrefixMaxExcess int // and only when the hit is at most this much longer

	// fuzzy matching
	FuzzyMinLen         int     // below this, fuzzy is never attempted
	IndexThresholdShort float64 // similarity floor sent to the index, short inputs
	IndexThresholdLong  float64
	FuzzyLimit          int // raw candidates fetched before ranking
}

func DefaultParams() Params {
	return Params{
		ShortInputLen:     8,
		MinScoreShort:     0.4,
		MinScoreLong:      0.3,
		ExcellentScore:    0.85,
		StrongScore:       0.8,
		GapTopScore:       0.7,
		MinGap:            0.15,
		MaxSuggestions:    4,
		StrongSuggestions: 2,

		PrefixMinLen:    6,
		PrefixMaxExcess: 15,

		FuzzyMinLen:         4,
		IndexThresholdShort: 0.3,
		IndexThresholdLong:  0.4,
		FuzzyLimit:          20,
	}
}

// indexThreshold is adaptive: short strings naturally score lower even for
// true matches, so they get the lower floor.
func (p Params) indexThreshold(inputLen int) float64 {
	if inputLen < p.ShortInputLen {
		return p.IndexThresholdShort
	}
	return p.IndexThresholdLong
}

func (p Params) minScore(inputLen int) float64 {
	if inputLen < p.ShortInputLen {
		return p.MinScoreShort
	}
	return p.MinScoreLong
}
