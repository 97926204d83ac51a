package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemStore is the in-memory Store used by the service. Lookups go through
// fold-keyed maps; Similar runs over a trigram inverted index with
// Damerau-Levenshtein rescoring of the bucket candidates.
type MemStore struct {
	mu        sync.RWMutex
	byID      map[int64]*Entry
	byName    map[string]*Entry // fold(name) -> entry
	bySynonym map[string]*Entry // fold(synonym name) -> accepted entry
	byLoose   map[string]*Entry // punctuation-stripped fold -> entry
	names     []string          // sorted folded names, for prefix lookup
	ids       []int64           // sorted, for deterministic ForEach
	inv       map[string]map[string]struct{} // trigram -> set(folded name)
	indexOn   bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:      make(map[int64]*Entry),
		byName:    make(map[string]*Entry),
		bySynonym: make(map[string]*Entry),
		byLoose:   make(map[string]*Entry),
		inv:       make(map[string]map[string]struct{}),
		indexOn:   true,
	}
}

// SetIndexEnabled toggles the trigram path. With the index off, Similar
// returns ErrIndexUnavailable and callers use the degraded substring scan.
func (s *MemStore) SetIndexEnabled(on bool) {
	s.mu.Lock()
	s.indexOn = on
	s.mu.Unlock()
}

// Load replaces the store contents. Synonym back-references are linked
// into forward lists and the synonym-name map.
func (s *MemStore) Load(entries []*Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[int64]*Entry, len(entries))
	s.byName = make(map[string]*Entry, len(entries))
	s.bySynonym = make(map[string]*Entry)
	s.byLoose = make(map[string]*Entry, len(entries))
	s.inv = make(map[string]map[string]struct{})
	s.names = s.names[:0]
	s.ids = s.ids[:0]

	for _, e := range entries {
		s.byID[e.ID] = e
		s.ids = append(s.ids, e.ID)
	}
	sort.Slice(s.ids, func(i, j int) bool { return s.ids[i] < s.ids[j] })

	for _, e := range entries {
		nn := Fold(e.Name)
		if nn == "" {
			continue
		}
		if _, dup := s.byName[nn]; !dup {
			s.byName[nn] = e
			s.names = append(s.names, nn)
			s.indexName(nn)
		}
		if loose := Loose(nn); loose != nn {
			if _, dup := s.byLoose[loose]; !dup {
				s.byLoose[loose] = e
			}
		}
		// back-reference: this entry's name is a synonym of the target
		if e.IsSynonym() {
			if target, ok := s.byID[e.SynonymOf]; ok {
				target.Synonyms = appendUnique(target.Synonyms, e.Name)
				s.bySynonym[nn] = target
			}
		}
		// forward list from seed data
		for _, syn := range e.Synonyms {
			sn := Fold(syn)
			if sn == "" {
				continue
			}
			if _, ok := s.bySynonym[sn]; !ok {
				s.bySynonym[sn] = e
				s.indexName(sn)
			}
		}
	}
	sort.Strings(s.names)
}

func (s *MemStore) indexName(nn string) {
	for g := range trigramSet(nn) {
		bucket, ok := s.inv[g]
		if !ok {
			bucket = make(map[string]struct{})
			s.inv[g] = bucket
		}
		bucket[nn] = struct{}{}
	}
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *MemStore) ByID(ctx context.Context, id int64) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *MemStore) FindExact(ctx context.Context, name string, includeSynonyms bool) (*Entry, error) {
	nn := Fold(name)
	if nn == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.byName[nn]; ok {
		if !e.IsSynonym() || includeSynonyms {
			return e, nil
		}
		if target, ok := s.byID[e.SynonymOf]; ok {
			return target, nil
		}
	}
	if e, ok := s.bySynonym[nn]; ok {
		return e, nil
	}
	// cultivar quotes and other punctuation often differ between nursery
	// spelling and catalog spelling
	if e, ok := s.byLoose[Loose(nn)]; ok {
		if !e.IsSynonym() || includeSynonyms {
			return e, nil
		}
		if target, ok := s.byID[e.SynonymOf]; ok {
			return target, nil
		}
	}
	return nil, nil
}

func (s *MemStore) FindPrefix(ctx context.Context, name string, maxExcess int, includeSynonyms bool) (*Entry, error) {
	nn := Fold(name)
	if nn == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	qlen := len([]rune(nn))
	i := sort.SearchStrings(s.names, nn)
	var best *Entry
	bestExcess := maxExcess + 1
	for ; i < len(s.names); i++ {
		cand := s.names[i]
		if len(cand) < len(nn) || cand[:len(nn)] != nn {
			break
		}
		excess := len([]rune(cand)) - qlen
		if excess > maxExcess || excess >= bestExcess {
			continue
		}
		e := s.byName[cand]
		if e.IsSynonym() && !includeSynonyms {
			continue
		}
		best = e
		bestExcess = excess
	}
	return best, nil
}

func (s *MemStore) Similar(ctx context.Context, name string, opt SimilarOptions) ([]Scored, error) {
	nn := Fold(name)
	if nn == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.indexOn {
		return nil, ErrIndexUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// trigram buckets give the candidate names, edit distance the score
	seen := make(map[string]struct{})
	for g := range trigramSet(nn) {
		for cand := range s.inv[g] {
			seen[cand] = struct{}{}
		}
	}

	best := make(map[int64]Scored, len(seen))
	for cand := range seen {
		score := bestSimilarity(nn, cand)
		if score < opt.Threshold {
			continue
		}
		e := s.resolveTarget(cand, opt.IncludeSynonyms)
		if e == nil {
			continue
		}
		if opt.Restrict != nil {
			if _, ok := opt.Restrict[e.ID]; !ok {
				continue
			}
		}
		if prev, ok := best[e.ID]; !ok || score > prev.Score {
			best[e.ID] = Scored{Entry: e, Score: score}
		}
	}

	out := make([]Scored, 0, len(best))
	for _, sc := range best {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if li, lj := len(out[i].Entry.Name), len(out[j].Entry.Name); li != lj {
			return li < lj
		}
		return out[i].Entry.ID < out[j].Entry.ID
	})
	if opt.Limit > 0 && len(out) > opt.Limit {
		out = out[:opt.Limit]
	}
	return out, nil
}

// resolveTarget maps a folded indexed name to the entry it should surface
// as. Synonym hits surface the accepted entry unless includeSynonyms.
func (s *MemStore) resolveTarget(nn string, includeSynonyms bool) *Entry {
	if e, ok := s.byName[nn]; ok {
		if !e.IsSynonym() || includeSynonyms {
			return e
		}
		if target, ok := s.byID[e.SynonymOf]; ok {
			return target
		}
		return nil
	}
	if e, ok := s.bySynonym[nn]; ok {
		return e
	}
	return nil
}

func (s *MemStore) ForEach(ctx context.Context, fn func(*Entry) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(s.byID[id]) {
			return nil
		}
	}
	return nil
}
