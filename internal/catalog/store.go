package catalog

import (
	"context"
	"errors"
)

var (
	// ErrIndexUnavailable signals that the trigram similarity path cannot be
	// used; callers fall back to a substring scan.
	ErrIndexUnavailable = errors.New("catalog: similarity index unavailable")
	ErrNotFound         = errors.New("catalog: entry not found")
)

// Scored pairs an entry with its similarity to a query.
type Scored struct {
	Entry *Entry
	Score float64
}

// SimilarOptions controls the similarity lookup.
type SimilarOptions struct {
	Threshold float64
	Limit     int
	// Restrict, when non-nil, limits match targets to the given entry ids
	// (used to search only plants that are in stock somewhere).
	Restrict map[int64]struct{}
	// IncludeSynonyms lets entries with SynonymOf set be targets themselves.
	// Default mode maps synonym-name hits to their accepted entry instead.
	IncludeSynonyms bool
}

// Store is the read interface of the reference taxonomy. All name lookups
// are case- and accent-insensitive; implementations fold internally.
type Store interface {
	ByID(ctx context.Context, id int64) (*Entry, error)

	// FindExact matches name equality against entry names and synonym names.
	// A synonym-name hit resolves to the accepted entry unless
	// includeSynonyms is set. Returns (nil, nil) on a clean miss.
	FindExact(ctx context.Context, name string, includeSynonyms bool) (*Entry, error)

	// FindPrefix matches entries whose name starts with the query, accepting
	// only names at most maxExcess runes longer than the query. The shortest
	// qualifying name wins. Returns (nil, nil) on a clean miss.
	FindPrefix(ctx context.Context, name string, maxExcess int, includeSynonyms bool) (*Entry, error)

	// Similar returns entries scored against the query, best first, using
	// the trigram index. Returns ErrIndexUnavailable when the indexed path
	// cannot serve.
	Similar(ctx context.Context, name string, opt SimilarOptions) ([]Scored, error)

	// ForEach visits every entry until fn returns false. Backs the degraded
	// substring search.
	ForEach(ctx context.Context, fn func(*Entry) bool) error
}

// Canonical follows a synonym redirect to the accepted entry. Non-synonym
// entries are returned as-is.
func Canonical(ctx context.Context, s Store, e *Entry) (*Entry, error) {
	if e == nil || !e.IsSynonym() {
		return e, nil
	}
	return s.ByID(ctx, e.SynonymOf)
}
