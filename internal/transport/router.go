// Package transport assembles the HTTP API: middleware, module handlers and
// the operational endpoints.
package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cataloghandler "chorale/internal/catalog/handler"
	orghandler "chorale/internal/org/handler"
	"chorale/internal/platform/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Catalog   cataloghandler.Service
	Org       orghandler.Service
	Validator middleware.TokenValidator
	Refresher middleware.ActorRefresher
	Logger    *slog.Logger
	// Health reports readiness of backing stores; nil checks always pass.
	Health func(r *http.Request) error
}

// NewRouter wires all public endpoints. Every request gets a request ID and a
// resolved actor; authorization itself happens in the services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.ResolveActor(deps.Validator, deps.Refresher, deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(req); err != nil {
				deps.Logger.ErrorContext(req.Context(), "health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	orghandler.New(deps.Org, deps.Logger).Register(r)
	cataloghandler.New(deps.Catalog, deps.Logger).Register(r)

	return r
}
