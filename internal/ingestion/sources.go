package ingestion

import (
	"context"
	"fmt"
	"os"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// Source provides the full transaction batch of one scoring run.
type Source interface {
	// Load returns every transaction of the batch.
	// An empty batch is not an error.
	Load(ctx context.Context) ([]domain.Transaction, error)
}

// FileSource reads transactions from a JSON or JSON Lines export.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the export at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the export path.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and validates the whole export.
func (s *FileSource) Load(ctx context.Context) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open transactions file: %w", err)
	}
	defer f.Close()

	txs, err := DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return txs, nil
}

// StoreSource reads every transaction held by a TransactionStore.
type StoreSource struct {
	store storage.TransactionStore
}

// NewStoreSource creates a source backed by store.
func NewStoreSource(store storage.TransactionStore) *StoreSource {
	return &StoreSource{store: store}
}

// Load returns all stored transactions ordered by timestamp.
func (s *StoreSource) Load(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored transactions: %w", err)
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

// Compile-time interface checks.
var (
	_ Source = (*FileSource)(nil)
	_ Source = (*StoreSource)(nil)
)
