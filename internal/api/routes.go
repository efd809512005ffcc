package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	apimw "github.com/phrazzld/simfleet/internal/api/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Runs     *RunHandler
	Accounts *AccountHandler
	Health   http.HandlerFunc
}

// NewRouter builds the HTTP routes. Legacy paths are kept alongside the
// /api routes for existing clients.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(apimw.NewTraceMiddleware(logger))
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/runs", h.Runs.StartRun)
		r.Get("/runs/latest", h.Runs.LatestSummary)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))
			r.Post("/accounts", h.Accounts.AddAccount)
			r.Get("/accounts/{phone}", h.Accounts.GetAccount)
			r.Get("/status/today", h.Accounts.TodayStatus)
			r.Get("/status/services", h.Accounts.ServiceStatus)
		})
	})

	r.Post("/startNow", h.Runs.StartRun)
	r.Post("/addPhoneNumber", h.Accounts.AddAccount)
	r.Get("/check", h.Accounts.CheckCondition)
	r.Get("/checkStatusForToday", h.Accounts.TodayStatus)

	r.Get("/health", h.Health)

	return r
}
