// Package importer drives per-row name resolution for bulk inventory
// uploads: a state machine per row, batched processing with progress
// reporting, and a guarded commit.
package importer

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"vaxtlistan-service/internal/catalog"
	"vaxtlistan-service/internal/fileio"
	"vaxtlistan-service/internal/resolve"
)

// Config bounds one import run.
type Config struct {
	BatchSize  int           // rows per batch
	RowTimeout time.Duration // per-row matching deadline
	MinNameLen int           // below this the row is skipped outright
}

func DefaultConfig() Config {
	return Config{
		BatchSize:  25,
		RowTimeout: 8 * time.Second,
		MinNameLen: 2,
	}
}

// Session is the state machine for one uploaded dataset.
type Session struct {
	ID        string
	Mapping   Mapping
	CreatedAt time.Time

	mu       sync.Mutex
	rows     []*RowState
	byID     map[string]*RowState
	resolver *resolve.Resolver
	store    catalog.Store
	cfg      Config
	log      zerolog.Logger

	committing atomic.Bool
}

func NewSession(resolver *resolve.Resolver, store catalog.Store, mapping Mapping, cfg Config, log zerolog.Logger) *Session {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.RowTimeout <= 0 {
		cfg.RowTimeout = DefaultConfig().RowTimeout
	}
	if cfg.MinNameLen <= 0 {
		cfg.MinNameLen = DefaultConfig().MinNameLen
	}
	id := uuid.NewString()
	return &Session{
		ID:        id,
		Mapping:   mapping,
		CreatedAt: time.Now(),
		byID:      make(map[string]*RowState),
		resolver:  resolver,
		store:     store,
		cfg:       cfg,
		log:       log.With().Str("import", id).Logger(),
	}
}

// Process ingests the uploaded rows and resolves them in batches. A row's
// failure never aborts the batch; cancellation leaves already-resolved
// rows intact. onProgress, when set, fires once per batch.
func (s *Session) Process(ctx context.Context, raws []map[string]string, onProgress func(Progress)) []*RowState {
	s.mu.Lock()
	for _, raw := range raws {
		row := &RowState{
			ID:     uuid.NewString(),
			Raw:    raw,
			Name:   raw[fileio.ResolveColumn(raw, s.Mapping.NameKey)],
			Status: StatusPending,
		}
		s.rows = append(s.rows, row)
		s.byID[row.ID] = row
	}
	rows := s.rows
	s.mu.Unlock()

	total := len(rows)
	processed := 0
	for batch := 0; processed < total; batch++ {
		if ctx.Err() != nil {
			break // partial progress survives
		}
		end := processed + s.cfg.BatchSize
		if end > total {
			end = total
		}
		current := ""
		for _, row := range rows[processed:end] {
			current = row.Name
			s.resolveRow(ctx, row)
		}
		processed = end
		if onProgress != nil {
			onProgress(Progress{Batch: batch, Processed: processed, Total: total, Current: current})
		}
		// keep the scheduler fair between batches
		runtime.Gosched()
	}
	return rows
}

// resolveRow runs intake for a single row: skip too-short names, exact
// short-circuit, fuzzy suggestions otherwise. A timeout counts as "no
// match"; any other failure or panic converts to skip.
func (s *Session) resolveRow(ctx context.Context, row *RowState) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Str("row", row.ID).Msg("row matching panicked")
			s.setStatus(row, StatusSkip, 0, nil)
		}
	}()

	sanitized := resolve.Normalize(row.Name)
	s.mu.Lock()
	row.Sanitized = sanitized
	s.mu.Unlock()

	if utf8.RuneCountInString(sanitized) < s.cfg.MinNameLen {
		s.setStatus(row, StatusSkip, 0, nil)
		return
	}

	rctx, cancel := context.WithTimeout(ctx, s.cfg.RowTimeout)
	defer cancel()

	res, err := s.resolver.Resolve(rctx, row.Name, resolve.ResolveOptions{IncludeSynonyms: true})
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		// treated identically to "no match found"
		s.log.Warn().Str("name", sanitized).Msg("row matching timed out")
		s.setStatus(row, StatusNotFound, 0, nil)
		return
	case err != nil:
		s.log.Warn().Err(err).Str("name", sanitized).Msg("row matching failed")
		s.setStatus(row, StatusSkip, 0, nil)
		return
	}

	if res.Entry != nil {
		canonical, err := catalog.Canonical(rctx, s.store, res.Entry)
		if err != nil || canonical == nil {
			s.log.Warn().Err(err).Str("name", sanitized).Msg("synonym redirect failed")
			s.setStatus(row, StatusSkip, 0, nil)
			return
		}
		s.setStatus(row, StatusFound, canonical.ID, []Suggestion{{
			ID:         canonical.ID,
			Name:       canonical.Name,
			CommonName: canonical.CommonName,
			Score:      1,
		}})
		return
	}

	suggestions := make([]Suggestion, 0, len(res.Suggestions))
	for _, c := range res.Suggestions {
		suggestions = append(suggestions, Suggestion{
			ID:         c.Entry.ID,
			Name:       c.Entry.Name,
			CommonName: c.Entry.CommonName,
			Score:      c.Score,
		})
	}
	s.setStatus(row, StatusNotFound, 0, suggestions)
}

func (s *Session) setStatus(row *RowState, st Status, chosen int64, sugg []Suggestion) {
	s.mu.Lock()
	row.Status = st
	row.ChosenID = chosen
	if st != StatusSkip {
		// a skipped row keeps its suggestions for a later revert
		row.Suggestions = sugg
	}
	s.mu.Unlock()
}

// Rows returns a snapshot of the session rows.
func (s *Session) Rows() []*RowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*RowState, len(s.rows))
	copy(out, s.rows)
	return out
}

// SelectCandidate records a user-chosen catalog id for a row; this is also
// how an automatic found match is overridden.
func (s *Session) SelectCandidate(ctx context.Context, rowID string, entryID int64) error {
	entry, err := s.store.ByID(ctx, entryID)
	if err != nil {
		return err
	}
	canonical, err := catalog.Canonical(ctx, s.store, entry)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byID[rowID]
	if !ok {
		return ErrRowNotFound
	}
	if row.Committed || (row.Status != StatusFound && row.Status != StatusNotFound) {
		return ErrBadTransition
	}
	row.Status = StatusManual
	row.ChosenID = canonical.ID
	return nil
}

// Skip marks a row as deliberately unresolved, clearing any tentative
// selection.
func (s *Session) Skip(rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byID[rowID]
	if !ok {
		return ErrRowNotFound
	}
	if row.Committed {
		return ErrBadTransition
	}
	row.Status = StatusSkip
	row.ChosenID = 0
	return nil
}

// Revert returns a manually resolved or skipped row to notFound so the
// user can reconsider; prior suggestions are preserved.
func (s *Session) Revert(rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.byID[rowID]
	if !ok {
		return ErrRowNotFound
	}
	if row.Committed || (row.Status != StatusManual && row.Status != StatusSkip) {
		return ErrBadTransition
	}
	row.Status = StatusNotFound
	row.ChosenID = 0
	return nil
}

// Commit hands resolved rows to the writer one at a time. Re-entrant calls
// are rejected, not queued: a double click must not double-insert. A
// failed write logs and moves on; already-committed rows are not repeated.
func (s *Session) Commit(ctx context.Context, write func(ctx context.Context, row RowState) error) (int, error) {
	if !s.committing.CompareAndSwap(false, true) {
		return 0, ErrCommitInFlight
	}
	defer s.committing.Store(false)

	committed := 0
	for _, row := range s.Rows() {
		s.mu.Lock()
		ok := !row.Committed && row.ChosenID != 0 &&
			(row.Status == StatusFound || row.Status == StatusManual)
		snapshot := *row
		s.mu.Unlock()
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return committed, err
		}
		if err := write(ctx, snapshot); err != nil {
			s.log.Error().Err(err).Str("row", row.ID).Msg("commit write failed")
			continue
		}
		s.mu.Lock()
		row.Committed = true
		s.mu.Unlock()
		committed++
	}
	return committed, nil
}
