package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Oshichecker/internal/catalog"
	"github.com/MikeSquared-Agency/Oshichecker/internal/diagnosis"
	"github.com/MikeSquared-Agency/Oshichecker/internal/store"
	"github.com/MikeSquared-Agency/Oshichecker/internal/sweeper"
)

type RouterConfig struct {
	AdminToken         string
	PoolSize           int
	ArtistWeight       float64
	RateLimitPerMinute int
}

func NewRouter(svc *diagnosis.Service, cat *catalog.Catalog, s store.Store, sw *sweeper.Sweeper, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute))
	}

	sessions := NewSessionsHandler(svc, cat, cfg.PoolSize, cfg.ArtistWeight)
	results := NewResultHandler(svc, cat)
	catalogs := NewCatalogHandler(cat)
	admin := NewAdminHandler(s, sw)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/attributes", catalogs.Attributes)
		r.Get("/questions", catalogs.Questions)

		r.Post("/sessions", sessions.Create)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(SessionIDMiddleware)
			r.Get("/", sessions.Get)
			r.Delete("/", sessions.Reset)
			r.Post("/actions", sessions.Action)
			r.Post("/answers", sessions.Answer)
			r.Post("/candidates", sessions.Candidates)
			r.Get("/battle", sessions.Battle)
			r.Get("/result", results.Result)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Get("/stats", admin.Stats)
			r.Post("/sweep", admin.Sweep)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
