package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vaxtlistan-service/internal/api"
	"vaxtlistan-service/internal/config"
	"vaxtlistan-service/internal/middleware"
	"vaxtlistan-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, h *api.Handlers) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/suggest", h.Suggest)
		r.Post("/import", h.Import)
		r.Post("/import/{sessionID}/rows/{rowID}/{action}", h.RowAction)
		r.Post("/import/{sessionID}/commit", h.Commit)
	})

	return r
}
