// Package api exposes the resolution engine over HTTP: live availability
// search, did-you-mean suggestions and the bulk import flow.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vaxtlistan-service/internal/availability"
	"vaxtlistan-service/internal/catalog"
	"vaxtlistan-service/internal/config"
	"vaxtlistan-service/internal/fileio"
	"vaxtlistan-service/internal/importer"
	"vaxtlistan-service/internal/inventory"
	"vaxtlistan-service/internal/middleware"
	"vaxtlistan-service/internal/resolve"
)

type Handlers struct {
	cfg       config.Config
	log       zerolog.Logger
	store     catalog.Store
	stock     inventory.Store
	searcher  *availability.Searcher
	resolver  *resolve.Resolver
	importCfg importer.Config

	mu         sync.Mutex
	sessions   map[string]*importer.Session
	sessionTTL time.Duration
}

func New(cfg config.Config, log zerolog.Logger, store catalog.Store, stock inventory.Store, searcher *availability.Searcher, resolver *resolve.Resolver) *Handlers {
	return &Handlers{
		cfg:       cfg,
		log:       log,
		store:     store,
		stock:     stock,
		searcher:  searcher,
		resolver:  resolver,
		importCfg: importer.DefaultConfig(),
		sessions:  make(map[string]*importer.Session),
		// review sessions left unfinished are reclaimed after a day
		sessionTTL: 24 * time.Hour,
	}
}

// evictStale drops sessions past their review window so abandoned
// imports do not pile up in memory.
func (h *Handlers) evictStale() {
	cutoff := time.Now().Add(-h.sessionTTL)
	h.mu.Lock()
	for id, sess := range h.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()
}

func (h *Handlers) reqLog(r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return h.log.With().Str("req_id", rid).Logger()
	}
	return h.log
}

// Search serves the availability search page.
// GET /api/search?q=&limit=&offset=&sort=&include_hidden=
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	log := h.reqLog(r)
	q := r.URL.Query()
	opt := availability.Options{
		Limit:         atoi(q.Get("limit"), 20),
		Offset:        atoi(q.Get("offset"), 0),
		Sort:          availability.SortKey(q.Get("sort")),
		IncludeHidden: toBool(q.Get("include_hidden"), false),
	}
	res, err := h.searcher.Search(r.Context(), q.Get("q"), opt)
	if err != nil {
		log.Error().Err(err).Str("q", q.Get("q")).Msg("search failed")
		respondError(w, log, http.StatusServiceUnavailable, "search is temporarily unavailable")
		return
	}
	respondJSON(w, log, http.StatusOK, res)
}

type suggestion struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CommonName string `json:"commonName,omitempty"`
}

// Suggest serves the "did you mean" flow for unmatched names.
// GET /api/suggest?q=
func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	log := h.reqLog(r)
	raw := r.URL.Query().Get("q")

	res, err := h.resolver.Resolve(r.Context(), raw, resolve.ResolveOptions{})
	if err != nil {
		log.Error().Err(err).Str("q", raw).Msg("suggest failed")
		respondError(w, log, http.StatusServiceUnavailable, "suggestions are temporarily unavailable")
		return
	}

	out := make([]suggestion, 0, len(res.Suggestions)+1)
	if res.Entry != nil {
		out = append(out, suggestion{ID: res.Entry.ID, Name: res.Entry.Name, CommonName: res.Entry.CommonName})
	} else {
		for _, c := range res.Suggestions {
			out = append(out, suggestion{ID: c.Entry.ID, Name: c.Entry.Name, CommonName: c.Entry.CommonName})
		}
	}
	respondJSON(w, log, http.StatusOK, map[string]any{"suggestions": out})
}

// Import accepts a multipart upload plus column mapping, resolves every
// row in batches and returns the per-row states for review.
// POST /api/import  (file, name_column, price_column, stock_column,
// pot_column, height_column, comment_column, header_row)
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	log := h.reqLog(r)
	start := time.Now()

	if err := r.ParseMultipartForm(int64(h.cfg.MaxUploadMB) << 20); err != nil {
		respondError(w, log, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	defer r.Body.Close()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, log, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	mapping := importer.Mapping{
		NameKey:    strings.TrimSpace(r.FormValue("name_column")),
		PriceKey:   strings.TrimSpace(r.FormValue("price_column")),
		StockKey:   strings.TrimSpace(r.FormValue("stock_column")),
		PotKey:     strings.TrimSpace(r.FormValue("pot_column")),
		HeightKey:  strings.TrimSpace(r.FormValue("height_column")),
		CommentKey: strings.TrimSpace(r.FormValue("comment_column")),
		HeaderRow:  atoi(r.FormValue("header_row"), 1),
	}
	if mapping.NameKey == "" {
		respondError(w, log, http.StatusBadRequest, "name_column is required")
		return
	}

	rows, err := fileio.ReadAnyMaps(file, header.Filename, mapping.HeaderRow)
	if err != nil {
		respondError(w, log, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}

	sess := importer.NewSession(h.resolver, h.store, mapping, h.importCfg, log)
	states := sess.Process(r.Context(), rows, func(p importer.Progress) {
		log.Debug().
			Int("batch", p.Batch).
			Int("processed", p.Processed).
			Int("total", p.Total).
			Str("current", p.Current).
			Msg("import progress")
	})

	h.evictStale()
	h.mu.Lock()
	h.sessions[sess.ID] = sess
	h.mu.Unlock()

	log.Info().
		Str("import", sess.ID).
		Int("rows", len(states)).
		Dur("elapsed", time.Since(start)).
		Msg("import resolved")
	respondJSON(w, log, http.StatusOK, map[string]any{"sessionId": sess.ID, "rows": states})
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request, log zerolog.Logger) *importer.Session {
	h.evictStale()
	id := chi.URLParam(r, "sessionID")
	h.mu.Lock()
	sess := h.sessions[id]
	h.mu.Unlock()
	if sess == nil {
		respondError(w, log, http.StatusNotFound, "unknown import session")
	}
	return sess
}

// RowAction applies a review decision to one import row.
// POST /api/import/{sessionID}/rows/{rowID}/{action}  action in
// select|skip|revert; select takes entry_id.
func (h *Handlers) RowAction(w http.ResponseWriter, r *http.Request) {
	log := h.reqLog(r)
	sess := h.session(w, r, log)
	if sess == nil {
		return
	}
	rowID := chi.URLParam(r, "rowID")

	var err error
	switch action := chi.URLParam(r, "action"); action {
	case "select":
		entryID := atoi64(r.FormValue("entry_id"), 0)
		if entryID == 0 {
			respondError(w, log, http.StatusBadRequest, "entry_id is required")
			return
		}
		err = sess.SelectCandidate(r.Context(), rowID, entryID)
	case "skip":
		err = sess.Skip(rowID)
	case "revert":
		err = sess.Revert(rowID)
	default:
		respondError(w, log, http.StatusBadRequest, "unknown action: "+action)
		return
	}

	switch {
	case errors.Is(err, importer.ErrRowNotFound), errors.Is(err, catalog.ErrNotFound):
		respondError(w, log, http.StatusNotFound, err.Error())
	case errors.Is(err, importer.ErrBadTransition):
		respondError(w, log, http.StatusConflict, err.Error())
	case err != nil:
		log.Error().Err(err).Str("row", rowID).Msg("row action failed")
		respondError(w, log, http.StatusServiceUnavailable, "row action failed")
	default:
		respondJSON(w, log, http.StatusOK, map[string]any{"rows": sess.Rows()})
	}
}

// Commit writes resolved rows to the inventory, one insert per row.
// POST /api/import/{sessionID}/commit  (nursery_id)
func (h *Handlers) Commit(w http.ResponseWriter, r *http.Request) {
	log := h.reqLog(r)
	sess := h.session(w, r, log)
	if sess == nil {
		return
	}
	nurseryID := atoi64(r.FormValue("nursery_id"), 0)
	if nurseryID == 0 {
		respondError(w, log, http.StatusBadRequest, "nursery_id is required")
		return
	}

	mapping := sess.Mapping
	committed, err := sess.Commit(r.Context(), func(ctx context.Context, row importer.RowState) error {
		_, ierr := h.stock.Insert(ctx, rowToInventory(row, mapping, nurseryID))
		return ierr
	})
	if errors.Is(err, importer.ErrCommitInFlight) {
		respondError(w, log, http.StatusConflict, "commit already in progress")
		return
	}
	if err != nil {
		// partial progress is still reported
		log.Error().Err(err).Int("committed", committed).Msg("commit interrupted")
		respondJSON(w, log, http.StatusOK, map[string]any{"committed": committed, "error": err.Error()})
		return
	}
	log.Info().Str("import", sess.ID).Int("committed", committed).Msg("import committed")
	respondJSON(w, log, http.StatusOK, map[string]any{"committed": committed})
}

// rowToInventory builds the stock row for a confirmed import row. The
// resolution core has already validated the catalog reference; everything
// else is carried as supplied, unmapped columns as extension fields.
func rowToInventory(row importer.RowState, m importer.Mapping, nurseryID int64) inventory.Row {
	rec := row.Raw
	get := func(want string) string {
		if want == "" {
			return ""
		}
		return strings.TrimSpace(rec[fileio.ResolveColumn(rec, want)])
	}
	price, _ := fileio.ParseFloatSE(get(m.PriceKey))
	stock, ok := fileio.ParseIntSE(get(m.StockKey))
	if !ok {
		stock = 1 // a listed plant without a count is still one plant
	}

	mapped := map[string]struct{}{}
	for _, want := range []string{m.NameKey, m.PriceKey, m.StockKey, m.PotKey, m.HeightKey, m.CommentKey} {
		if want != "" {
			mapped[fileio.ResolveColumn(rec, want)] = struct{}{}
		}
	}
	extra := map[string]string{}
	for k, v := range rec {
		if _, used := mapped[k]; used {
			continue
		}
		extra[k] = v
	}

	return inventory.Row{
		FacitID:     row.ChosenID,
		NurseryID:   nurseryID,
		DisplayName: row.Name,
		Comment:     get(m.CommentKey),
		Pot:         get(m.PotKey),
		Height:      get(m.HeightKey),
		Price:       price,
		Stock:       stock,
		Extra:       extra,
	}
}
