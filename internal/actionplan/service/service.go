// Package service enforces the action-plan lifecycle rules.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"storepulse/internal/actionplan/models"
	"storepulse/internal/actionplan/store"
	"storepulse/internal/audit"
	"storepulse/internal/platform/metrics"
	"storepulse/internal/registry"
	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

type Option func(*Service)

// Service owns every lifecycle transition. Handlers, the CLI and the demo
// seeder all go through it; nothing else mutates plan status.
type Service struct {
	plans     store.Store
	directory registry.Directory
	auditor   *audit.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(plans store.Store, directory registry.Directory, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		plans:     plans,
		directory: directory,
		auditor:   auditor,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// GetPlan returns one plan with its full history.
func (s *Service) GetPlan(ctx context.Context, planID id.PlanID) (*models.ActionPlan, error) {
	return s.plans.FindByID(ctx, planID)
}

// ListByStore returns a store's plans ordered by wave then section.
func (s *Service) ListByStore(ctx context.Context, storeID id.StoreID) ([]*models.ActionPlan, error) {
	return s.plans.ListByStore(ctx, storeID)
}

// ListByWave returns all plans of one wave.
func (s *Service) ListByWave(ctx context.Context, wave string) ([]*models.ActionPlan, error) {
	return s.plans.ListByWave(ctx, wave)
}

// History returns the append-only audit events recorded for a plan.
func (s *Service) History(ctx context.Context, planID id.PlanID) ([]audit.Event, error) {
	return s.auditor.List(ctx, planID.String())
}

// Submit moves a plan into review with the store's remediation content.
// Allowed from Requires Action and Revision Required; the submission's
// root cause, commitment and person in charge are mandatory.
func (s *Service) Submit(ctx context.Context, planID id.PlanID, actor id.Actor, sub models.Submission) (*models.ActionPlan, error) {
	if !actor.Role.IsValid() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing actor context")
	}
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	from := plan.Status
	if !from.CanTransitionTo(models.StatusWaitingForApproval) {
		s.metrics.RecordTransition("submit", "invalid_state")
		return nil, dErrors.New(dErrors.CodeInvalidState,
			"plan cannot be submitted from status "+string(from))
	}

	now := s.now().UTC()
	plan.RootCause = strings.TrimSpace(sub.RootCause)
	plan.Commitment = strings.TrimSpace(sub.Commitment)
	plan.PersonInCharge = strings.TrimSpace(sub.PersonInCharge)
	plan.Blocker = strings.TrimSpace(sub.Blocker)
	plan.EvidenceURL = strings.TrimSpace(sub.EvidenceURL)
	plan.SubmittedAt = &now
	plan.Status = models.StatusWaitingForApproval
	plan.UpdatedAt = now
	plan.AppendHistory(models.StatusWaitingForApproval, "", actor.ID, actor.Name, now)

	if err := s.plans.Update(ctx, plan, from); err != nil {
		s.metrics.RecordTransition("submit", "conflict")
		return nil, err
	}
	s.metrics.RecordTransition("submit", "ok")
	s.emit(ctx, plan, audit.ActionPlanSubmitted, actor, "")

	s.logger.Info("action plan submitted",
		"plan_id", plan.ID.String(),
		"store_id", plan.StoreID.String(),
		"wave", plan.Wave,
		"section", plan.Section,
	)
	return plan, nil
}

// Approve accepts a submitted plan. Reviewer roles only.
func (s *Service) Approve(ctx context.Context, planID id.PlanID, actor id.Actor, note string) (*models.ActionPlan, error) {
	return s.review(ctx, planID, actor, models.StatusApproved, "approve", audit.ActionPlanApproved, note, false)
}

// Resolve marks a submitted plan's remediation as verified done.
// Reviewer roles only.
func (s *Service) Resolve(ctx context.Context, planID id.PlanID, actor id.Actor, note string) (*models.ActionPlan, error) {
	return s.review(ctx, planID, actor, models.StatusResolved, "resolve", audit.ActionPlanResolved, note, false)
}

// Reject sends a submitted plan back for revision. The reason is mandatory
// and becomes part of the plan's history.
func (s *Service) Reject(ctx context.Context, planID id.PlanID, actor id.Actor, reason string) (*models.ActionPlan, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}
	return s.review(ctx, planID, actor, models.StatusRevisionRequired, "reject", audit.ActionPlanRejected, reason, true)
}

func (s *Service) review(ctx context.Context, planID id.PlanID, actor id.Actor, target models.Status, transition, action, note string, noteRequired bool) (*models.ActionPlan, error) {
	if !actor.Role.IsValid() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing actor context")
	}
	if !actor.Role.CanReview() {
		return nil, dErrors.New(dErrors.CodeForbidden, "actor role cannot review plans")
	}
	if noteRequired && strings.TrimSpace(note) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "note is required")
	}

	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	from := plan.Status
	if !from.CanTransitionTo(target) {
		s.metrics.RecordTransition(transition, "invalid_state")
		return nil, dErrors.New(dErrors.CodeInvalidState,
			"plan cannot move from "+string(from)+" to "+string(target))
	}

	now := s.now().UTC()
	plan.Status = target
	plan.UpdatedAt = now
	plan.AppendHistory(target, strings.TrimSpace(note), actor.ID, actor.Name, now)

	if err := s.plans.Update(ctx, plan, from); err != nil {
		s.metrics.RecordTransition(transition, "conflict")
		return nil, err
	}
	s.metrics.RecordTransition(transition, "ok")
	s.emit(ctx, plan, action, actor, strings.TrimSpace(note))

	s.logger.Info("action plan reviewed",
		"plan_id", plan.ID.String(),
		"transition", transition,
		"status", string(target),
	)
	return plan, nil
}

// ApprovalQueue returns plans waiting for review, oldest submission first.
func (s *Service) ApprovalQueue(ctx context.Context) ([]*models.ActionPlan, error) {
	return s.plans.ListByStatus(ctx, models.StatusWaitingForApproval)
}

// QueueStats summarizes the review backlog.
type QueueStats struct {
	Length    int           `json:"length"`
	OldestAge time.Duration `json:"oldest_age"`
}

// QueueStats reports the backlog length and the age of the oldest waiting
// submission.
func (s *Service) QueueStats(ctx context.Context) (QueueStats, error) {
	queue, err := s.ApprovalQueue(ctx)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Length: len(queue)}
	if len(queue) > 0 && queue[0].SubmittedAt != nil {
		stats.OldestAge = s.now().Sub(*queue[0].SubmittedAt)
	}
	return stats, nil
}

// OverdueCount is one rollup bucket of the overdue report.
type OverdueCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OverdueReport counts plans past their due date that the store has not
// submitted yet. Overdue is always derived at read time.
type OverdueReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Total       int            `json:"total"`
	ByBranch    []OverdueCount `json:"by_branch"`
	ByRegion    []OverdueCount `json:"by_region"`
}

// Overdue builds the overdue rollup across branches and regions.
func (s *Service) Overdue(ctx context.Context) (*OverdueReport, error) {
	now := s.now().UTC()

	open, err := s.plans.ListByStatus(ctx, models.StatusRequiresAction)
	if err != nil {
		return nil, err
	}

	stores, err := s.directory.ListStores(ctx)
	if err != nil {
		return nil, err
	}
	storeIndex := make(map[id.StoreID]*registry.Store, len(stores))
	for _, st := range stores {
		storeIndex[st.ID] = st
	}

	report := &OverdueReport{GeneratedAt: now}
	byBranch := make(map[id.BranchID]int)
	byRegion := make(map[id.RegionID]int)
	for _, plan := range open {
		if !plan.Overdue(now) {
			continue
		}
		report.Total++
		st, ok := storeIndex[plan.StoreID]
		if !ok {
			s.logger.Warn("overdue plan references unknown store",
				"plan_id", plan.ID.String(),
				"store_id", plan.StoreID.String(),
			)
			continue
		}
		byBranch[st.BranchID]++
		byRegion[st.RegionID]++
	}

	branches, err := s.directory.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	for _, branch := range branches {
		if count := byBranch[branch.ID]; count > 0 {
			report.ByBranch = append(report.ByBranch, OverdueCount{ID: branch.ID.String(), Name: branch.Name, Count: count})
		}
	}
	regions, err := s.directory.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	for _, region := range regions {
		if count := byRegion[region.ID]; count > 0 {
			report.ByRegion = append(report.ByRegion, OverdueCount{ID: region.ID.String(), Name: region.Name, Count: count})
		}
	}
	sortCounts(report.ByBranch)
	sortCounts(report.ByRegion)

	if s.metrics != nil {
		s.metrics.PlansOverdue.Set(float64(report.Total))
	}
	return report, nil
}

func sortCounts(counts []OverdueCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
}

func validateSubmission(sub models.Submission) error {
	if strings.TrimSpace(sub.RootCause) == "" {
		return dErrors.New(dErrors.CodeValidation, "root cause is required")
	}
	if strings.TrimSpace(sub.Commitment) == "" {
		return dErrors.New(dErrors.CodeValidation, "commitment is required")
	}
	if strings.TrimSpace(sub.PersonInCharge) == "" {
		return dErrors.New(dErrors.CodeValidation, "person in charge is required")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, plan *models.ActionPlan, action string, actor id.Actor, note string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		PlanID:    plan.ID.String(),
		StoreID:   plan.StoreID.String(),
		Wave:      plan.Wave,
		Section:   plan.Section,
		Action:    action,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Note:      note,
	}); err != nil {
		s.logger.Error("failed to emit audit event", "error", err, "action", action)
	}
}
