// Package httptransport wires the HTTP surface: thin handlers over the
// domain services, the shared middleware chain, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	planhandler "storepulse/internal/actionplan/handler"
	evalhandler "storepulse/internal/evaluation/handler"
	"storepulse/internal/platform/metrics"
	"storepulse/internal/platform/middleware"
	respond "storepulse/internal/transport/http/json"
)

// Handler is the thin HTTP layer. It delegates to domain services without
// embedding business logic so transport concerns remain isolated.
type Handler struct {
	plans  *planhandler.Handler
	evals  *evalhandler.Handler
	ingest IngestService
	audit  AuditService
	logger *slog.Logger
}

// NewHandler bundles the domain handlers and operational services.
func NewHandler(plans *planhandler.Handler, evals *evalhandler.Handler, ingestSvc IngestService, auditSvc AuditService, logger *slog.Logger) *Handler {
	return &Handler{
		plans:  plans,
		evals:  evals,
		ingest: ingestSvc,
		audit:  auditSvc,
		logger: logger,
	}
}

// NewRouter wires all endpoints with the middleware chain. Everything except
// health and metrics sits behind bearer-token auth: every read and every
// transition is attributed to an actor. The metrics may be nil.
func NewRouter(h *Handler, signingKey []byte, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger, m))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// JSON API
	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.Auth(signingKey, logger))
		h.plans.Register(api)
		h.evals.Register(api)
	})

	// Operational endpoints take raw CSV bodies, so they bypass the JSON
	// content-type gate but not auth.
	r.Group(func(ops chi.Router) {
		ops.Use(middleware.Auth(signingKey, logger))
		ops.Post("/waves/{wave}/ingest", h.handleIngestWave)
		ops.Post("/waves/{wave}/audit", h.handleAuditWave)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
