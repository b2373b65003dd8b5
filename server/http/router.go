package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"procure-service/internal/config"
	"procure-service/internal/draft"
	"procure-service/internal/middleware"
	procHnd "procure-service/internal/procure/handler"
	"procure-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, store *draft.Store) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) << 20))

	r.Get("/health", handlers.Health)

	// сравнение прайсов и план закупки
	r.Post("/compare", procHnd.Compare(cfg, logger, store))

	// черновик списка закупки
	r.Get("/procurement-list", procHnd.GetDraft(store))
	r.Put("/procurement-list", procHnd.PutDraft(store, logger))

	return r
}
