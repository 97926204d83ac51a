// Package availability joins resolved catalog entries against live
// nursery stock for the public search page.
package availability

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vaxtlistan-service/internal/catalog"
	"vaxtlistan-service/internal/inventory"
	"vaxtlistan-service/internal/resolve"
)

type SortKey string

const (
	SortRelevance  SortKey = "relevance"
	SortPopularity SortKey = "popularity"
	SortNameAsc    SortKey = "name_asc"
	SortNameDesc   SortKey = "name_desc"
)

// Options controls one search call.
type Options struct {
	Limit         int
	Offset        int
	Sort          SortKey
	IncludeHidden bool
}

// Plant is one search result: a catalog entry with its aggregated
// availability.
type Plant struct {
	Entry          *catalog.Entry `json:"entry"`
	AvailableCount int            `json:"availableCount"`
	NurseryCount   int            `json:"nurseryCount"`
	Prices         []float64      `json:"prices"`
	Relevance      float64        `json:"relevance,omitempty"`
}

type Result struct {
	Results    []Plant `json:"results"`
	TotalCount int     `json:"totalCount"`
	ElapsedMs  int64   `json:"elapsedMs"`
}

type Searcher struct {
	store    catalog.Store
	stock    inventory.Store
	resolver *resolve.Resolver
	log      zerolog.Logger
}

func NewSearcher(store catalog.Store, stock inventory.Store, resolver *resolve.Resolver, log zerolog.Logger) *Searcher {
	return &Searcher{store: store, stock: stock, resolver: resolver, log: log}
}

// Search resolves the query against the in-stock join and aggregates
// availability. An empty query is a browse, not an empty state: it returns
// the whole in-stock catalog sorted by the requested key.
func (s *Searcher) Search(ctx context.Context, query string, opt Options) (Result, error) {
	start := time.Now()
	if opt.Limit <= 0 {
		opt.Limit = 20
	}
	if opt.Offset < 0 {
		opt.Offset = 0
	}
	if opt.Sort == "" {
		opt.Sort = SortPopularity
	}

	aggs, err := s.stock.Aggregate(ctx, opt.IncludeHidden)
	if err != nil {
		return Result{}, err
	}

	query = strings.TrimSpace(query)
	var plants []Plant
	if query == "" {
		plants, err = s.browse(ctx, aggs)
	} else {
		plants, err = s.resolveQuery(ctx, query, aggs)
	}
	if err != nil {
		return Result{}, err
	}

	sortKey := opt.Sort
	if sortKey == SortRelevance && query == "" {
		// relevance is meaningless without a query
		sortKey = SortPopularity
	}
	sortPlants(plants, sortKey)

	total := len(plants)
	if opt.Offset > len(plants) {
		plants = nil
	} else {
		plants = plants[opt.Offset:]
	}
	if len(plants) > opt.Limit {
		plants = plants[:opt.Limit]
	}

	return Result{
		Results:    plants,
		TotalCount: total,
		ElapsedMs:  time.Since(start).Milliseconds(),
	}, nil
}

func (s *Searcher) browse(ctx context.Context, aggs map[int64]inventory.Agg) ([]Plant, error) {
	out := make([]Plant, 0, len(aggs))
	for id, agg := range aggs {
		e, err := s.store.ByID(ctx, id)
		if err != nil {
			// stale stock rows must not break browsing
			s.log.Warn().Err(err).Int64("facit_id", id).Msg("stock row without catalog entry")
			continue
		}
		out = append(out, Plant{Entry: e, AvailableCount: agg.AvailableCount, NurseryCount: agg.NurseryCount, Prices: agg.Prices})
	}
	return out, nil
}

// resolveQuery runs exact+fuzzy resolution restricted to plants that are
// actually in stock somewhere, a far smaller space than the full catalog.
func (s *Searcher) resolveQuery(ctx context.Context, query string, aggs map[int64]inventory.Agg) ([]Plant, error) {
	restrict := make(map[int64]struct{}, len(aggs))
	for id := range aggs {
		restrict[id] = struct{}{}
	}

	res, err := s.resolver.Resolve(ctx, query, resolve.ResolveOptions{Restrict: restrict})
	if err != nil {
		return nil, err
	}

	var matched []catalog.Candidate
	if res.Entry != nil {
		if _, inStock := aggs[res.Entry.ID]; inStock {
			matched = []catalog.Candidate{{Entry: res.Entry, Score: 1, Strategy: res.Strategy}}
		} else {
			// the canonical hit is sold out everywhere; fall through to
			// fuzzy over the in-stock subset
			p := s.resolver.Params()
			cands, ferr := resolve.MatchFuzzy(ctx, s.store, res.Normalized, p, resolve.FuzzyOptions{Restrict: restrict})
			if ferr != nil {
				return nil, ferr
			}
			matched = resolve.Rank(cands, len([]rune(res.Normalized)), p)
		}
	}
	if matched == nil {
		matched = res.Suggestions
	}

	out := make([]Plant, 0, len(matched))
	for _, c := range matched {
		agg, ok := aggs[c.Entry.ID]
		if !ok {
			continue
		}
		out = append(out, Plant{
			Entry:          c.Entry,
			AvailableCount: agg.AvailableCount,
			NurseryCount:   agg.NurseryCount,
			Prices:         agg.Prices,
			Relevance:      c.Score,
		})
	}
	return out, nil
}

func sortPlants(plants []Plant, key SortKey) {
	switch key {
	case SortRelevance:
		sort.SliceStable(plants, func(i, j int) bool {
			if plants[i].Relevance != plants[j].Relevance {
				return plants[i].Relevance > plants[j].Relevance
			}
			return plants[i].Entry.Popularity > plants[j].Entry.Popularity
		})
	case SortNameAsc:
		sort.SliceStable(plants, func(i, j int) bool {
			return catalog.Fold(plants[i].Entry.Name) < catalog.Fold(plants[j].Entry.Name)
		})
	case SortNameDesc:
		sort.SliceStable(plants, func(i, j int) bool {
			return catalog.Fold(plants[i].Entry.Name) > catalog.Fold(plants[j].Entry.Name)
		})
	default: // popularity
		sort.SliceStable(plants, func(i, j int) bool {
			if plants[i].Entry.Popularity != plants[j].Entry.Popularity {
				return plants[i].Entry.Popularity > plants[j].Entry.Popularity
			}
			return catalog.Fold(plants[i].Entry.Name) < catalog.Fold(plants[j].Entry.Name)
		})
	}
}
