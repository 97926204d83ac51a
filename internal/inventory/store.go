package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Agg is the cross-nursery availability of one catalog entry.
type Agg struct {
	AvailableCount int       `json:"availableCount"`
	NurseryCount   int       `json:"nurseryCount"`
	Prices         []float64 `json:"prices"`
}

// Store is the read/write interface over nursery stock.
type Store interface {
	Insert(ctx context.Context, row Row) (string, error)
	// InStockIDs returns the catalog ids carried with stock > 0.
	InStockIDs(ctx context.Context, includeHidden bool) (map[int64]struct{}, error)
	// Aggregate folds stock rows per catalog id.
	Aggregate(ctx context.Context, includeHidden bool) (map[int64]Agg, error)
}

// MemStore keeps rows in memory; fine for tests and single-node use.
type MemStore struct {
	mu   sync.RWMutex
	rows []Row
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Insert(ctx context.Context, row Row) (string, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.Extra = SanitizeExtra(row.Extra)
	s.mu.Lock()
	s.rows = append(s.rows, row)
	s.mu.Unlock()
	return row.ID, nil
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *MemStore) InStockIDs(ctx context.Context, includeHidden bool) (map[int64]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]struct{})
	for _, r := range s.rows {
		if r.Stock <= 0 || (r.Hidden && !includeHidden) {
			continue
		}
		out[r.FacitID] = struct{}{}
	}
	return out, nil
}

func (s *MemStore) Aggregate(ctx context.Context, includeHidden bool) (map[int64]Agg, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nurseries := make(map[int64]map[int64]struct{})
	out := make(map[int64]Agg)
	for _, r := range s.rows {
		if r.Stock <= 0 || (r.Hidden && !includeHidden) {
			continue
		}
		a := out[r.FacitID]
		a.AvailableCount += r.Stock
		a.Prices = append(a.Prices, r.Price)
		ns, ok := nurseries[r.FacitID]
		if !ok {
			ns = make(map[int64]struct{})
			nurseries[r.FacitID] = ns
		}
		ns[r.NurseryID] = struct{}{}
		a.NurseryCount = len(ns)
		out[r.FacitID] = a
	}
	for id, a := range out {
		sort.Float64s(a.Prices)
		out[id] = a
	}
	return out, nil
}
