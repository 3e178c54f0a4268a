package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/idhash"
	"wallet-credit-score/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]domain.Transaction // keyed by tx_id
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]domain.Transaction),
	}
}

// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
func (s *TransactionStore) InsertBulk(_ context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	ids := make([]string, len(txs))
	batchKeys := make(map[string]struct{}, len(txs))

	// First pass: check for duplicates (existing + intra-batch)
	for i, tx := range txs {
		if tx.UserWallet == "" {
			return storage.ErrInvalidInput
		}
		id := idhash.ComputeTransactionID(tx)
		if _, exists := s.data[id]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[id]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[id] = struct{}{}
		ids[i] = id
	}

	// Second pass: insert all
	for i, tx := range txs {
		s.data[ids[i]] = tx
	}

	return nil
}

// GetAll retrieves every stored transaction, ordered by (timestamp ASC, tx_id ASC).
func (s *TransactionStore) GetAll(_ context.Context) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.data[ids[i]], s.data[ids[j]]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return ids[i] < ids[j]
	})

	result := make([]domain.Transaction, len(ids))
	for i, id := range ids {
		result[i] = s.data[id]
	}
	return result, nil
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// Verify interface compliance
var _ storage.TransactionStore = (*TransactionStore)(nil)
