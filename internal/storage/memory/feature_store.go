package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.FeatureVector // run_id → wallet → vector
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{
		data: make(map[string]map[string]*domain.FeatureVector),
	}
}

// InsertBulk adds the feature vectors of a run atomically.
func (s *FeatureStore) InsertBulk(_ context.Context, runID string, vectors []*domain.FeatureVector) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(vectors) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[runID]
	batchKeys := make(map[string]struct{}, len(vectors))
	for _, v := range vectors {
		if v == nil || v.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := existing[v.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[v.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[v.Wallet] = struct{}{}
	}

	if existing == nil {
		existing = make(map[string]*domain.FeatureVector, len(vectors))
		s.data[runID] = existing
	}
	for _, v := range vectors {
		existing[v.Wallet] = cloneVector(v)
	}
	return nil
}

// GetByRun retrieves the feature vectors of a run, ordered by wallet ASC.
func (s *FeatureStore) GetByRun(_ context.Context, runID string) ([]*domain.FeatureVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.FeatureVector, 0, len(s.data[runID]))
	for _, v := range s.data[runID] {
		result = append(result, cloneVector(v))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Wallet < result[j].Wallet
	})
	return result, nil
}

// cloneVector deep-copies v including its action histogram.
func cloneVector(v *domain.FeatureVector) *domain.FeatureVector {
	copy := *v
	copy.ActionCounts = make(map[string]int, len(v.ActionCounts))
	for k, n := range v.ActionCounts {
		copy.ActionCounts[k] = n
	}
	return &copy
}

// Verify interface compliance
var _ storage.FeatureStore = (*FeatureStore)(nil)
