package httptransport

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storepulse/internal/ingest"
	"storepulse/internal/platform/middleware"
	"storepulse/internal/reconcile"
	respond "storepulse/internal/transport/http/json"
	"storepulse/internal/transport/http/shared"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

// IngestService triggers a wave ingestion from an uploaded export.
type IngestService interface {
	IngestWave(ctx context.Context, wave string, r io.Reader) (*ingest.Report, error)
}

// AuditService runs a reconciliation audit over an uploaded export.
type AuditService interface {
	Run(ctx context.Context, wave string, r io.Reader, sampleSize int, seed int64) (*reconcile.Report, error)
}

// handleIngestWave accepts a raw semicolon-delimited export in the request
// body and scores it. Admin only: ingestion rewrites evaluations.
func (h *Handler) handleIngestWave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.GetActor(ctx)
	if !ok || actor.Role != id.RoleAdmin {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "ingestion requires the admin role"))
		return
	}

	wave := chi.URLParam(r, "wave")
	report, err := h.ingest.IngestWave(ctx, wave, r.Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "wave ingestion failed",
			"request_id", middleware.GetRequestID(ctx),
			"wave", wave,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, report)
}

// handleAuditWave recomputes a sample of the uploaded export and reports
// reconciliation findings. Reviewer roles and admin.
func (h *Handler) handleAuditWave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := middleware.GetActor(ctx)
	if !ok || !actor.Role.CanReview() {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "auditing requires a reviewer role"))
		return
	}

	sampleSize := queryInt(r, "sample", 0)
	seed := int64(queryInt(r, "seed", 1))

	wave := chi.URLParam(r, "wave")
	report, err := h.audit.Run(ctx, wave, r.Body, sampleSize, seed)
	if err != nil {
		h.logger.ErrorContext(ctx, "reconciliation audit failed",
			"request_id", middleware.GetRequestID(ctx),
			"wave", wave,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, report)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
