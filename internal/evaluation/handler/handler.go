// Package handler exposes evaluation reads over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"storepulse/internal/evaluation/models"
	"storepulse/internal/evaluation/store"
	"storepulse/internal/platform/middleware"
	"storepulse/internal/scoring"
	respond "storepulse/internal/transport/http/json"
	"storepulse/internal/transport/http/shared"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

// Handler handles evaluation read endpoints.
type Handler struct {
	evals  store.Store
	logger *slog.Logger
}

// New creates a new evaluation Handler.
func New(evals store.Store, logger *slog.Logger) *Handler {
	return &Handler{evals: evals, logger: logger}
}

// Register registers the evaluation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/waves", h.handleListWaves)
	r.Get("/waves/{wave}/evaluations", h.handleListByWave)
	r.Get("/stores/{storeID}/evaluations", h.handleListByStore)
	r.Get("/stores/{storeID}/evaluations/{wave}", h.handleGetEvaluation)
}

// EvaluationResponse is the wire form of a wave evaluation.
type EvaluationResponse struct {
	ID           string                `json:"id"`
	StoreID      string                `json:"store_id"`
	Wave         string                `json:"wave"`
	OverallScore float64               `json:"overall_score"`
	Sections     []models.SectionScore `json:"sections"`
	FailedItems  []scoring.FailedItem  `json:"failed_items"`
	IngestedAt   string                `json:"ingested_at"`
}

func toEvaluationResponse(eval *models.WaveEvaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:           eval.ID.String(),
		StoreID:      eval.StoreID.String(),
		Wave:         eval.Wave,
		OverallScore: eval.OverallScore,
		Sections:     eval.Sections,
		FailedItems:  eval.FailedItems,
		IngestedAt:   eval.IngestedAt.UTC().Format(time.RFC3339),
	}
}

func toEvaluationResponses(evals []*models.WaveEvaluation) []EvaluationResponse {
	out := make([]EvaluationResponse, 0, len(evals))
	for _, eval := range evals {
		out = append(out, toEvaluationResponse(eval))
	}
	return out
}

func (h *Handler) handleListWaves(w http.ResponseWriter, r *http.Request) {
	waves, err := h.evals.ListWaves(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"waves": waves})
}

func (h *Handler) handleListByWave(w http.ResponseWriter, r *http.Request) {
	evals, err := h.evals.ListByWave(r.Context(), chi.URLParam(r, "wave"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"evaluations": toEvaluationResponses(evals)})
}

func (h *Handler) handleListByStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := id.ParseStoreID(chi.URLParam(r, "storeID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid store id"))
		return
	}
	evals, err := h.evals.ListByStore(r.Context(), storeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"evaluations": toEvaluationResponses(evals)})
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID, err := id.ParseStoreID(chi.URLParam(r, "storeID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid store id"))
		return
	}
	eval, err := h.evals.FindByStoreAndWave(ctx, storeID, chi.URLParam(r, "wave"))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load evaluation",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toEvaluationResponse(eval))
}
