// Package httpapi assembles the service router: platform middleware, health
// and metrics endpoints, and the credit line routes.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creditline/internal/creditline/handler"
	"creditline/pkg/platform/middleware/requestid"
	"creditline/pkg/platform/middleware/requesttime"
)

// NewRouter wires all public endpoints.
func NewRouter(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	h.Register(r)

	return r
}
