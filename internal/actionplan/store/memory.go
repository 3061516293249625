package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"storepulse/internal/actionplan/models"
	id "storepulse/pkg/domain"
)

type planKey struct {
	storeID id.StoreID
	wave    string
	section string
}

// InMemoryStore keeps action plans in memory for tests and demo mode.
// All reads return deep copies so callers cannot mutate shared state.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[id.PlanID]*models.ActionPlan
	byKey map[planKey]id.PlanID
}

// NewInMemoryStore constructs an empty plan store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[id.PlanID]*models.ActionPlan),
		byKey: make(map[planKey]id.PlanID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, plan *models.ActionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := planKey{storeID: plan.StoreID, wave: plan.Wave, section: plan.Section}
	if _, ok := s.byKey[key]; ok {
		return ErrDuplicate
	}
	s.byID[plan.ID] = copyPlan(plan)
	s.byKey[key] = plan.ID
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, plan *models.ActionPlan, expected models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[plan.ID]
	if !ok {
		return ErrNotFound
	}
	if existing.Status != expected {
		return ErrStaleStatus
	}
	s.byID[plan.ID] = copyPlan(plan)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, planID id.PlanID) (*models.ActionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.byID[planID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPlan(plan), nil
}

func (s *InMemoryStore) FindByStoreWaveSection(_ context.Context, storeID id.StoreID, wave, section string) (*models.ActionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	planID, ok := s.byKey[planKey{storeID: storeID, wave: wave, section: section}]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPlan(s.byID[planID]), nil
}

func (s *InMemoryStore) ListByStore(_ context.Context, storeID id.StoreID) ([]*models.ActionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var plans []*models.ActionPlan
	for _, plan := range s.byID {
		if plan.StoreID != storeID {
			continue
		}
		plans = append(plans, copyPlan(plan))
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].Wave != plans[j].Wave {
			return plans[i].Wave < plans[j].Wave
		}
		return plans[i].Section < plans[j].Section
	})
	return plans, nil
}

func (s *InMemoryStore) ListByWave(_ context.Context, wave string) ([]*models.ActionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var plans []*models.ActionPlan
	for _, plan := range s.byID {
		if plan.Wave != wave {
			continue
		}
		plans = append(plans, copyPlan(plan))
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].StoreID != plans[j].StoreID {
			return plans[i].StoreID.String() < plans[j].StoreID.String()
		}
		return plans[i].Section < plans[j].Section
	})
	return plans, nil
}

func (s *InMemoryStore) ListByStatus(_ context.Context, status models.Status) ([]*models.ActionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var plans []*models.ActionPlan
	for _, plan := range s.byID {
		if plan.Status != status {
			continue
		}
		plans = append(plans, copyPlan(plan))
	}
	sort.Slice(plans, func(i, j int) bool {
		return queueTime(plans[i]).Before(queueTime(plans[j]))
	})
	return plans, nil
}

func queueTime(plan *models.ActionPlan) time.Time {
	if plan.SubmittedAt != nil {
		return *plan.SubmittedAt
	}
	return plan.CreatedAt
}

func copyPlan(plan *models.ActionPlan) *models.ActionPlan {
	copyP := *plan
	copyP.Items = append([]models.PlanItem(nil), plan.Items...)
	copyP.History = append([]models.HistoryEntry(nil), plan.History...)
	if plan.SubmittedAt != nil {
		submitted := *plan.SubmittedAt
		copyP.SubmittedAt = &submitted
	}
	return &copyP
}
