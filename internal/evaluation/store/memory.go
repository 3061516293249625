package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"storepulse/internal/evaluation/models"
	"storepulse/internal/scoring"
	id "storepulse/pkg/domain"
)

type evalKey struct {
	storeID id.StoreID
	wave    string
}

// InMemoryStore keeps evaluations in memory for tests and demo mode.
// All reads return deep copies so callers cannot mutate shared state.
type InMemoryStore struct {
	mu        sync.RWMutex
	byKey     map[evalKey]*models.WaveEvaluation
	waveFirst map[string]time.Time
}

// NewInMemoryStore constructs an empty evaluation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byKey:     make(map[evalKey]*models.WaveEvaluation),
		waveFirst: make(map[string]time.Time),
	}
}

func (s *InMemoryStore) Upsert(_ context.Context, eval *models.WaveEvaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := evalKey{storeID: eval.StoreID, wave: eval.Wave}
	if existing, ok := s.byKey[key]; ok {
		eval.ID = existing.ID
	} else if eval.ID.IsNil() {
		eval.ID = id.NewEvaluationID()
	}
	s.byKey[key] = copyEvaluation(eval)

	if _, ok := s.waveFirst[eval.Wave]; !ok {
		s.waveFirst[eval.Wave] = eval.IngestedAt
	}
	return nil
}

func (s *InMemoryStore) FindByStoreAndWave(_ context.Context, storeID id.StoreID, wave string) (*models.WaveEvaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	eval, ok := s.byKey[evalKey{storeID: storeID, wave: wave}]
	if !ok {
		return nil, ErrNotFound
	}
	return copyEvaluation(eval), nil
}

func (s *InMemoryStore) ListByStore(_ context.Context, storeID id.StoreID) ([]*models.WaveEvaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var evals []*models.WaveEvaluation
	for key, eval := range s.byKey {
		if key.storeID != storeID {
			continue
		}
		evals = append(evals, copyEvaluation(eval))
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].IngestedAt.Before(evals[j].IngestedAt) })
	return evals, nil
}

func (s *InMemoryStore) ListByWave(_ context.Context, wave string) ([]*models.WaveEvaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var evals []*models.WaveEvaluation
	for key, eval := range s.byKey {
		if key.wave != wave {
			continue
		}
		evals = append(evals, copyEvaluation(eval))
	}
	sort.Slice(evals, func(i, j int) bool { return evals[i].StoreID.String() < evals[j].StoreID.String() })
	return evals, nil
}

func (s *InMemoryStore) ListWaves(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	waves := make([]string, 0, len(s.waveFirst))
	for wave := range s.waveFirst {
		waves = append(waves, wave)
	}
	sort.Slice(waves, func(i, j int) bool {
		if !s.waveFirst[waves[i]].Equal(s.waveFirst[waves[j]]) {
			return s.waveFirst[waves[i]].Before(s.waveFirst[waves[j]])
		}
		return waves[i] < waves[j]
	})
	return waves, nil
}

func copyEvaluation(eval *models.WaveEvaluation) *models.WaveEvaluation {
	copyEval := *eval
	copyEval.Sections = append([]models.SectionScore(nil), eval.Sections...)
	for i, section := range eval.Sections {
		if section.Score != nil {
			score := *section.Score
			copyEval.Sections[i].Score = &score
		}
	}
	copyEval.FailedItems = append([]scoring.FailedItem(nil), eval.FailedItems...)
	return &copyEval
}
