package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// WalletScoreStore is an in-memory implementation of storage.WalletScoreStore.
type WalletScoreStore struct {
	mu   sync.RWMutex
	data map[string]map[string]domain.WalletScore // run_id → wallet → score
}

// NewWalletScoreStore creates a new in-memory wallet score store.
func NewWalletScoreStore() *WalletScoreStore {
	return &WalletScoreStore{
		data: make(map[string]map[string]domain.WalletScore),
	}
}

// InsertBulk adds the score table of a run atomically.
func (s *WalletScoreStore) InsertBulk(_ context.Context, runID string, scores []domain.WalletScore) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.data[runID]
	batchKeys := make(map[string]struct{}, len(scores))
	for _, sc := range scores {
		if sc.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := existing[sc.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[sc.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[sc.Wallet] = struct{}{}
	}

	if existing == nil {
		existing = make(map[string]domain.WalletScore, len(scores))
		s.data[runID] = existing
	}
	for _, sc := range scores {
		existing[sc.Wallet] = sc
	}
	return nil
}

// GetByRun retrieves the scores of a run, ordered by rank ASC.
func (s *WalletScoreStore) GetByRun(_ context.Context, runID string) ([]domain.WalletScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.WalletScore, 0, len(s.data[runID]))
	for _, sc := range s.data[runID] {
		result = append(result, sc)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Rank != result[j].Rank {
			return result[i].Rank < result[j].Rank
		}
		return result[i].Wallet < result[j].Wallet
	})
	return result, nil
}

// Verify interface compliance
var _ storage.WalletScoreStore = (*WalletScoreStore)(nil)
