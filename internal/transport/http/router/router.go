package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/baechuer/theatre-listing/internal/config"
	"github.com/baechuer/theatre-listing/internal/metrics"
	"github.com/baechuer/theatre-listing/internal/transport/http/handlers"
	appmw "github.com/baechuer/theatre-listing/internal/transport/http/middleware"
)

// New builds the HTTP router. The admin routes are only mounted when both
// auth and admin are non-nil.
func New(
	h *handlers.EventsHandler,
	z *handlers.HealthHandler,
	admin *handlers.AdminHandler,
	auth *appmw.AuthMiddleware,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	r.Use(appmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.AccessLog)
	r.Use(appmw.Metrics)

	r.Get("/healthz", z.Healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RLEnabled {
			r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
		}

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.HTML)
			r.Get("/meta", h.Meta)
			r.Get("/months", h.Months)
			r.Get("/categories", h.Categories)
			r.Get("/list", h.List)
		})

		if admin != nil && auth != nil {
			r.Route("/admin/v1", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Delete("/cache", admin.PurgeCache)
			})
		}
	})

	return r
}
