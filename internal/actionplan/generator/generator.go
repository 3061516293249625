// Package generator opens action plans for sections that missed the target
// score in a wave evaluation.
package generator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storepulse/internal/actionplan/models"
	"storepulse/internal/actionplan/store"
	"storepulse/internal/audit"
	evalmodels "storepulse/internal/evaluation/models"
	evalstore "storepulse/internal/evaluation/store"
	"storepulse/internal/platform/config"
	"storepulse/internal/platform/metrics"
	id "storepulse/pkg/domain"
)

// Report summarizes one generation run.
type Report struct {
	Created int
	Skipped int // sections that already had a plan or did not qualify
	PlanIDs []id.PlanID
}

// Generator opens plans from a scored evaluation. Generation is idempotent:
// an existing plan for the same (store, wave, section) is left untouched.
type Generator struct {
	plans   store.Store
	evals   evalstore.Store
	policy  config.Policy
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor *audit.Publisher
}

// New constructs a Generator. The auditor and metrics may be nil.
func New(plans store.Store, evals evalstore.Store, policy config.Policy, logger *slog.Logger, m *metrics.Metrics, auditor *audit.Publisher) *Generator {
	return &Generator{
		plans:   plans,
		evals:   evals,
		policy:  policy,
		logger:  logger,
		metrics: m,
		auditor: auditor,
	}
}

// Generate opens a plan for every section of eval scoring below the target.
// A section with a perfect 100 never opens a plan regardless of the target,
// and a section without a score this wave is skipped. The due date is
// waveEnd plus the remediation window.
func (g *Generator) Generate(ctx context.Context, eval *evalmodels.WaveEvaluation, waveEnd time.Time) (Report, error) {
	var report Report

	history, err := g.lookbackFailures(ctx, eval)
	if err != nil {
		return report, err
	}

	dueDate := waveEnd.Add(g.policy.RemediationWindow.Std())
	now := time.Now().UTC()

	for _, section := range eval.Sections {
		if section.Score == nil {
			continue
		}
		score := *section.Score
		if score >= g.policy.TargetScore || score == 100 {
			continue
		}

		if _, err := g.plans.FindByStoreWaveSection(ctx, eval.StoreID, eval.Wave, section.Letter); err == nil {
			report.Skipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return report, err
		}

		items := g.classifyItems(eval, section.Letter, history)
		plan, err := models.NewActionPlan(id.NewPlanID(), eval.StoreID, eval.ID,
			eval.Wave, section.Letter, section.Name, score, items, dueDate, now)
		if err != nil {
			return report, err
		}

		if err := g.plans.Create(ctx, plan); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				report.Skipped++
				continue
			}
			return report, err
		}

		report.Created++
		report.PlanIDs = append(report.PlanIDs, plan.ID)
		if g.metrics != nil {
			g.metrics.PlansCreated.Inc()
		}
		if g.auditor != nil {
			if err := g.auditor.Emit(ctx, audit.Event{
				PlanID:  plan.ID.String(),
				StoreID: plan.StoreID.String(),
				Wave:    plan.Wave,
				Section: plan.Section,
				Action:  audit.ActionPlanGenerated,
			}); err != nil {
				g.logger.Error("failed to emit audit event", "error", err, "plan_id", plan.ID.String())
			}
		}
		g.logger.Info("action plan opened",
			"store_id", eval.StoreID.String(),
			"wave", eval.Wave,
			"section", section.Letter,
			"score", score,
			"due", dueDate.Format(time.RFC3339),
		)
	}

	return report, nil
}

// lookbackFailures returns the failed-code sets of the store's prior waves,
// newest first, capped at the configured lookback depth. The current wave is
// excluded. Prior waves are resolved through the wave order (first ingestion
// time), never through per-record ingestion timestamps: re-ingesting a
// historical wave refreshes its records but must not reorder the streak walk.
func (g *Generator) lookbackFailures(ctx context.Context, eval *evalmodels.WaveEvaluation) ([]map[int]bool, error) {
	waves, err := g.evals.ListWaves(ctx)
	if err != nil {
		return nil, err
	}
	prior, err := g.evals.ListByStore(ctx, eval.StoreID)
	if err != nil {
		return nil, err
	}
	byWave := make(map[string]*evalmodels.WaveEvaluation, len(prior))
	for _, p := range prior {
		byWave[p.Wave] = p
	}

	current := len(waves)
	for i, wave := range waves {
		if wave == eval.Wave {
			current = i
			break
		}
	}

	// Waves the store was not audited in are skipped rather than treated as
	// a broken streak.
	var history []map[int]bool
	for i := current - 1; i >= 0; i-- {
		p, ok := byWave[waves[i]]
		if !ok {
			continue
		}
		history = append(history, p.FailedCodes())
		if len(history) == g.policy.Recurrence.LookbackWaves {
			break
		}
	}
	return history, nil
}

// classifyItems tags each failed item of one section against the lookback
// history. An item failing in enough consecutive waves counting this one is
// Recurring; one that failed somewhere in the lookback window but broke the
// streak is Inconsistent; otherwise it just failed this wave.
func (g *Generator) classifyItems(eval *evalmodels.WaveEvaluation, section string, history []map[int]bool) []models.PlanItem {
	failed := eval.FailedItemsForSection(section)
	items := make([]models.PlanItem, 0, len(failed))
	for _, item := range failed {
		tag := models.TagJustFailed

		consecutive := 1
		for _, waveFailures := range history {
			if !waveFailures[item.Code] {
				break
			}
			consecutive++
		}

		switch {
		case consecutive >= g.policy.Recurrence.RecurringAfter+1:
			tag = models.TagRecurring
		case failedAnywhere(history, item.Code):
			tag = models.TagInconsistent
		}

		items = append(items, models.PlanItem{FailedItem: item, Recurrence: tag})
	}
	return items
}

func failedAnywhere(history []map[int]bool, code int) bool {
	for _, waveFailures := range history {
		if waveFailures[code] {
			return true
		}
	}
	return false
}
