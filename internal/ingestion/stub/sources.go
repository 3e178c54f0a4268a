package stub

import (
	"context"

	"wallet-credit-score/internal/domain"
)

// StubSource returns fixed in-memory transactions for testing.
// Records can be intentionally unordered to test sorting.
// Implements ingestion.Source interface.
type StubSource struct {
	txs []domain.Transaction
	err error
}

// NewStubSource creates a new stub source with the given transactions.
func NewStubSource(txs []domain.Transaction) *StubSource {
	return &StubSource{txs: txs}
}

// NewFailingSource creates a stub source whose Load always fails with err.
func NewFailingSource(err error) *StubSource {
	return &StubSource{err: err}
}

// Load returns a copy of the configured transactions.
func (s *StubSource) Load(_ context.Context) ([]domain.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]domain.Transaction, len(s.txs))
	copy(result, s.txs)
	return result, nil
}
