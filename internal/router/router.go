// Package router assembles the HTTP routes of the service.
package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docverify/internal/handlers"
	"docverify/internal/middleware"
)

// New builds the router. gatherer backs GET /metrics.
func New(h *handlers.Handler, gatherer prometheus.Gatherer, logger *slog.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(corsOrigins))
	r.Use(middleware.Logging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	h.Register(r)
	return r
}
