package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rankgate/internal/platform/middleware"
)

// NewRouter wires all endpoints. Health and metrics stay open; every
// workflow-triggering route sits behind the shared-secret gate, which runs
// before any parsing or validation.
func NewRouter(h *Handler, apiKey string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(apiKey, logger))

		r.Post("/submit_promotion", h.handleSubmit)
		r.Get("/get_pending_promotions", h.handlePending)
		r.Post("/approve_promotion/{id}", h.handleApprove)
		r.Post("/reject_promotion/{id}", h.handleReject)
		r.Get("/get_request_status/{id}", h.handleStatus)
		r.Post("/direct_promote", h.handleDirectPromote)
	})

	return r
}
