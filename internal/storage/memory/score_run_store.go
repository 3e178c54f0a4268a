package memory

import (
	"context"
	"sync"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// ScoreRunStore is an in-memory implementation of storage.ScoreRunStore.
type ScoreRunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ScoreRun // keyed by run_id
}

// NewScoreRunStore creates a new in-memory score run store.
func NewScoreRunStore() *ScoreRunStore {
	return &ScoreRunStore{
		data: make(map[string]*domain.ScoreRun),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *ScoreRunStore) Insert(_ context.Context, run *domain.ScoreRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *run
	s.data[run.RunID] = &copy
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *ScoreRunStore) GetByID(_ context.Context, runID string) (*domain.ScoreRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *run
	return &copy, nil
}

// GetLatest retrieves the run with the latest GeneratedAt, ties broken by run_id DESC.
func (s *ScoreRunStore) GetLatest(_ context.Context) (*domain.ScoreRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.ScoreRun
	for _, run := range s.data {
		if latest == nil ||
			run.GeneratedAt.After(latest.GeneratedAt) ||
			(run.GeneratedAt.Equal(latest.GeneratedAt) && run.RunID > latest.RunID) {
			latest = run
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	copy := *latest
	return &copy, nil
}

// Verify interface compliance
var _ storage.ScoreRunStore = (*ScoreRunStore)(nil)
