package httpserver

import (
	"net/http"
	"time"

	"vigat-bahee/internal/config"
	"vigat-bahee/internal/metrics"
	"vigat-bahee/internal/transport/httpserver/handler"
	authmw "vigat-bahee/internal/transport/httpserver/middleware"
	"vigat-bahee/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, tokens authmw.TokenParser, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware)
		r.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Get("/tithi", handlers.ResolveTithi)
		r.Get("/categories", handlers.ListCategories)

		r.Post("/auth/register", handlers.Register)
		r.Post("/auth/login", handlers.Login)

		auth := authmw.NewJWTAuth(cfg.Auth, tokens, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/bahee", handlers.ListHeaders)
			r.Post("/bahee", handlers.CreateHeader)
			r.Get("/bahee/{id}", handlers.GetHeader)
			r.Put("/bahee/{id}", handlers.UpdateHeader)
			r.Delete("/bahee/{id}", handlers.DeleteHeader)

			r.Get("/entries", handlers.ListEntries)
			r.Post("/entries", handlers.CreateEntry)
			r.Get("/entries/totals", handlers.Totals)
			r.Get("/entries/export", handlers.ExportEntries)
			r.Get("/entries/{id}", handlers.GetEntry)
			r.Put("/entries/{id}", handlers.UpdateEntry)
			r.Delete("/entries/{id}", handlers.DeleteEntry)
			r.Post("/entries/{id}/return-net", handlers.RecordReturnNet)
		})
	})

	return r
}
