package ingestion

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"wallet-credit-score/internal/storage"
)

// Manager copies transactions from a source into the warehouse.
// It enforces deterministic ordering and uses storage layer for duplicate rejection.
type Manager struct {
	source Source
	store  storage.TransactionStore
	log    zerolog.Logger
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	Source Source
	Store  storage.TransactionStore
	Logger *zerolog.Logger
}

// IngestResult summarizes one ingestion.
type IngestResult struct {
	Loaded   int // records read from the source
	Dropped  int // identical in-batch records skipped
	Ingested int // records written
}

// NewManager creates a new ingestion manager with the provided source and store.
func NewManager(opts ManagerOptions) *Manager {
	m := &Manager{
		source: opts.Source,
		store:  opts.Store,
		log:    zerolog.Nop(),
	}
	if opts.Logger != nil {
		m.log = opts.Logger.With().Str("component", "ingestion").Logger()
	}
	return m
}

// Ingest loads the source, drops in-batch duplicates, orders the records
// and stores them in one atomic batch.
// Records already present in the store are rejected with storage.ErrDuplicateKey.
func (m *Manager) Ingest(ctx context.Context) (*IngestResult, error) {
	if m.source == nil || m.store == nil {
		return &IngestResult{}, nil
	}

	txs, err := m.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	result := &IngestResult{Loaded: len(txs)}
	if len(txs) == 0 {
		return result, nil
	}

	txs, result.Dropped, err = Dedupe(txs)
	if err != nil {
		return nil, err
	}
	if result.Dropped > 0 {
		m.log.Warn().Int("dropped", result.Dropped).Msg("duplicate records in source")
	}

	// Enforce deterministic ordering
	SortTransactions(txs)

	// Store via bulk insert - storage layer handles duplicates
	if err := m.store.InsertBulk(ctx, txs); err != nil {
		return nil, fmt.Errorf("store transactions: %w", err)
	}

	result.Ingested = len(txs)
	m.log.Info().
		Int("loaded", result.Loaded).
		Int("ingested", result.Ingested).
		Msg("ingestion complete")

	return result, nil
}
