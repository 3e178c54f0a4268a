package storage

import (
	"context"

	"wallet-credit-score/internal/domain"
)

// TransactionStore provides access to the raw transactions warehouse.
// Records are keyed by idhash.ComputeTransactionID.
type TransactionStore interface {
	// InsertBulk adds multiple transactions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, txs []domain.Transaction) error

	// GetAll retrieves every stored transaction, ordered by (timestamp ASC, tx_id ASC).
	GetAll(ctx context.Context) ([]domain.Transaction, error)

	// Count returns the number of stored transactions.
	Count(ctx context.Context) (int, error)
}

// ScoreRunStore provides access to score_runs storage.
type ScoreRunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.ScoreRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.ScoreRun, error)

	// GetLatest retrieves the most recently generated run. Returns ErrNotFound if none.
	GetLatest(ctx context.Context) (*domain.ScoreRun, error)
}

// WalletScoreStore provides access to wallet_scores storage.
type WalletScoreStore interface {
	// InsertBulk adds the score table of a run atomically.
	// Fails entire batch on duplicate (run_id, wallet).
	InsertBulk(ctx context.Context, runID string, scores []domain.WalletScore) error

	// GetByRun retrieves the scores of a run, ordered by rank ASC.
	GetByRun(ctx context.Context, runID string) ([]domain.WalletScore, error)
}

// FeatureStore provides access to wallet_features storage.
type FeatureStore interface {
	// InsertBulk adds the feature vectors of a run atomically.
	// Fails entire batch on duplicate (run_id, wallet).
	InsertBulk(ctx context.Context, runID string, vectors []*domain.FeatureVector) error

	// GetByRun retrieves the feature vectors of a run, ordered by wallet ASC.
	GetByRun(ctx context.Context, runID string) ([]*domain.FeatureVector, error)
}
