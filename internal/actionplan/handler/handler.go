// Package handler exposes the action-plan lifecycle over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"storepulse/internal/actionplan/models"
	"storepulse/internal/actionplan/service"
	"storepulse/internal/audit"
	"storepulse/internal/platform/middleware"
	respond "storepulse/internal/transport/http/json"
	"storepulse/internal/transport/http/shared"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
	s "storepulse/pkg/string"
	"storepulse/pkg/validation"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the lifecycle operations the handler delegates to.
type Service interface {
	GetPlan(ctx context.Context, planID id.PlanID) (*models.ActionPlan, error)
	ListByStore(ctx context.Context, storeID id.StoreID) ([]*models.ActionPlan, error)
	ListByWave(ctx context.Context, wave string) ([]*models.ActionPlan, error)
	History(ctx context.Context, planID id.PlanID) ([]audit.Event, error)
	Submit(ctx context.Context, planID id.PlanID, actor id.Actor, sub models.Submission) (*models.ActionPlan, error)
	Approve(ctx context.Context, planID id.PlanID, actor id.Actor, note string) (*models.ActionPlan, error)
	Resolve(ctx context.Context, planID id.PlanID, actor id.Actor, note string) (*models.ActionPlan, error)
	Reject(ctx context.Context, planID id.PlanID, actor id.Actor, reason string) (*models.ActionPlan, error)
	ApprovalQueue(ctx context.Context) ([]*models.ActionPlan, error)
	QueueStats(ctx context.Context) (service.QueueStats, error)
	Overdue(ctx context.Context) (*service.OverdueReport, error)
}

// Handler handles action-plan endpoints.
type Handler struct {
	plans  Service
	logger *slog.Logger
}

// New creates a new action-plan Handler.
func New(plans Service, logger *slog.Logger) *Handler {
	return &Handler{
		plans:  plans,
		logger: logger,
	}
}

// Register registers the action-plan routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/plans/queue", h.handleQueue)
	r.Get("/plans/queue/stats", h.handleQueueStats)
	r.Get("/plans/overdue", h.handleOverdue)
	r.Get("/plans/{planID}", h.handleGetPlan)
	r.Get("/plans/{planID}/history", h.handleHistory)
	r.Post("/plans/{planID}/submit", h.handleSubmit)
	r.Post("/plans/{planID}/approve", h.handleApprove)
	r.Post("/plans/{planID}/resolve", h.handleResolve)
	r.Post("/plans/{planID}/reject", h.handleReject)
	r.Get("/stores/{storeID}/plans", h.handleListByStore)
	r.Get("/waves/{wave}/plans", h.handleListByWave)
}

// SubmitRequest is the store's remediation submission.
type SubmitRequest struct {
	RootCause      string `json:"root_cause" validate:"required,notblank"`
	Commitment     string `json:"commitment" validate:"required,notblank"`
	PersonInCharge string `json:"person_in_charge" validate:"required,notblank"`
	Blocker        string `json:"blocker"`
	EvidenceURL    string `json:"evidence_url" validate:"omitempty,url"`
}

// ReviewRequest carries an optional reviewer note.
type ReviewRequest struct {
	Note string `json:"note"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,notblank"`
}

// PlanResponse is the wire form of an action plan.
type PlanResponse struct {
	ID             string                `json:"id"`
	StoreID        string                `json:"store_id"`
	EvaluationID   string                `json:"evaluation_id"`
	Wave           string                `json:"wave"`
	Section        string                `json:"section"`
	SectionName    string                `json:"section_name"`
	SectionScore   float64               `json:"section_score"`
	Items          []models.PlanItem     `json:"items"`
	Status         string                `json:"status"`
	RootCause      string                `json:"root_cause,omitempty"`
	Commitment     string                `json:"commitment,omitempty"`
	PersonInCharge string                `json:"person_in_charge,omitempty"`
	Blocker        string                `json:"blocker,omitempty"`
	EvidenceURL    string                `json:"evidence_url,omitempty"`
	DueDate        time.Time             `json:"due_date"`
	Overdue        bool                  `json:"overdue"`
	SubmittedAt    *time.Time            `json:"submitted_at,omitempty"`
	History        []models.HistoryEntry `json:"history"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func toPlanResponse(plan *models.ActionPlan, now time.Time) PlanResponse {
	return PlanResponse{
		ID:             plan.ID.String(),
		StoreID:        plan.StoreID.String(),
		EvaluationID:   plan.EvaluationID.String(),
		Wave:           plan.Wave,
		Section:        plan.Section,
		SectionName:    plan.SectionName,
		SectionScore:   plan.SectionScore,
		Items:          plan.Items,
		Status:         string(plan.Status),
		RootCause:      plan.RootCause,
		Commitment:     plan.Commitment,
		PersonInCharge: plan.PersonInCharge,
		Blocker:        plan.Blocker,
		EvidenceURL:    plan.EvidenceURL,
		DueDate:        plan.DueDate,
		Overdue:        plan.Overdue(now),
		SubmittedAt:    plan.SubmittedAt,
		History:        plan.History,
		CreatedAt:      plan.CreatedAt,
		UpdatedAt:      plan.UpdatedAt,
	}
}

func toPlanResponses(plans []*models.ActionPlan, now time.Time) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, plan := range plans {
		out = append(out, toPlanResponse(plan, now))
	}
	return out
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid plan id"))
		return
	}

	plan, err := h.plans.GetPlan(ctx, planID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load plan",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toPlanResponse(plan, time.Now()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid plan id"))
		return
	}

	events, err := h.plans.History(ctx, planID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleListByStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID, err := id.ParseStoreID(chi.URLParam(r, "storeID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid store id"))
		return
	}

	plans, err := h.plans.ListByStore(ctx, storeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"plans": toPlanResponses(plans, time.Now())})
}

func (h *Handler) handleListByWave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plans, err := h.plans.ListByWave(ctx, chi.URLParam(r, "wave"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"plans": toPlanResponses(plans, time.Now())})
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queue, err := h.plans.ApprovalQueue(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"queue": toPlanResponses(queue, time.Now())})
}

func (h *Handler) handleQueueStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.plans.QueueStats(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleOverdue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.plans.Overdue(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	planID, actor, ok := h.planAndActor(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	s.TrimStrings(&req.RootCause, &req.Commitment, &req.PersonInCharge, &req.Blocker, &req.EvidenceURL)
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	plan, err := h.plans.Submit(ctx, planID, actor, models.Submission{
		RootCause:      req.RootCause,
		Commitment:     req.Commitment,
		PersonInCharge: req.PersonInCharge,
		Blocker:        req.Blocker,
		EvidenceURL:    req.EvidenceURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "plan submission failed",
			"request_id", middleware.GetRequestID(ctx),
			"plan_id", planID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toPlanResponse(plan, time.Now()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.plans.Approve)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.plans.Resolve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	planID, actor, ok := h.planAndActor(w, r)
	if !ok {
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	s.TrimStrings(&req.Reason)
	if err := validation.Validate(&req); err != nil {
		shared.WriteError(w, err)
		return
	}

	plan, err := h.plans.Reject(ctx, planID, actor, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "plan rejection failed",
			"request_id", middleware.GetRequestID(ctx),
			"plan_id", planID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toPlanResponse(plan, time.Now()))
}

type reviewFunc func(ctx context.Context, planID id.PlanID, actor id.Actor, note string) (*models.ActionPlan, error)

func (h *Handler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	ctx := r.Context()
	planID, actor, ok := h.planAndActor(w, r)
	if !ok {
		return
	}

	// The note is optional on approve/resolve; an empty body is fine.
	var req ReviewRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	s.TrimStrings(&req.Note)

	plan, err := fn(ctx, planID, actor, req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "plan review failed",
			"request_id", middleware.GetRequestID(ctx),
			"plan_id", planID.String(),
			"endpoint", r.URL.Path,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toPlanResponse(plan, time.Now()))
}

func (h *Handler) planAndActor(w http.ResponseWriter, r *http.Request) (id.PlanID, id.Actor, bool) {
	ctx := r.Context()
	planID, err := id.ParsePlanID(chi.URLParam(r, "planID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid plan id"))
		return id.PlanID{}, id.Actor{}, false
	}
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "actor missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.PlanID{}, id.Actor{}, false
	}
	return planID, actor, true
}
