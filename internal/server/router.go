package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter assembles the HTTP surface. The returned handler is wrapped with
// otelhttp so every route is traced.
func NewRouter(h *CartHandler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(UserIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Post("/guest-summary", h.GuestSummary)
			r.Post("/items-changed", h.ItemsChanged)
			r.Get("/validation", h.GetValidation)
			r.Post("/validate-prices", h.ValidatePrices)
		})
	})

	return otelhttp.NewHandler(r, "mamabloemetjes-pricing")
}
