// Package httpapi assembles the public HTTP surface. Routing and middleware
// live here; the domain handlers register themselves so this package never
// touches business logic.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"caseflow/internal/finalize/handler"
	"caseflow/internal/platform/middleware"
	"caseflow/pkg/platform/httputil"
)

// Config collects everything the router mounts.
type Config struct {
	Finalize       *handler.Handler
	JWTValidator   middleware.JWTValidator
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// NewRouter builds the full route tree. Health and metrics sit outside the
// auth chain; every case route requires a validated caseworker token.
func NewRouter(cfg Config) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestMetadata)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(chimw.Timeout(timeout))
		api.Use(middleware.RequireAuth(cfg.JWTValidator, cfg.Logger))
		cfg.Finalize.Register(api)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
