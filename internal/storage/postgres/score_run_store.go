package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// ScoreRunStore implements storage.ScoreRunStore using PostgreSQL.
type ScoreRunStore struct {
	pool *Pool
}

// NewScoreRunStore creates a new ScoreRunStore.
func NewScoreRunStore(pool *Pool) *ScoreRunStore {
	return &ScoreRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScoreRunStore = (*ScoreRunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *ScoreRunStore) Insert(ctx context.Context, r *domain.ScoreRun) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO score_runs (
			run_id, generated_at, data_version, weights_version,
			transaction_count, wallet_count, missing_amounts, malformed_amounts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.GeneratedAt, r.DataVersion, r.WeightsVersion,
		r.TransactionCount, r.WalletCount, r.MissingAmounts, r.MalformedAmounts,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert score run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *ScoreRunStore) GetByID(ctx context.Context, runID string) (*domain.ScoreRun, error) {
	query := `
		SELECT
			run_id, generated_at, data_version, weights_version,
			transaction_count, wallet_count, missing_amounts, malformed_amounts
		FROM score_runs
		WHERE run_id = $1
	`

	r, err := scanScoreRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get score run by id: %w", err)
	}
	return r, nil
}

// GetLatest retrieves the most recently generated run. Returns ErrNotFound if none.
func (s *ScoreRunStore) GetLatest(ctx context.Context) (*domain.ScoreRun, error) {
	query := `
		SELECT
			run_id, generated_at, data_version, weights_version,
			transaction_count, wallet_count, missing_amounts, malformed_amounts
		FROM score_runs
		ORDER BY generated_at DESC, run_id DESC
		LIMIT 1
	`

	r, err := scanScoreRun(s.pool.QueryRow(ctx, query))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest score run: %w", err)
	}
	return r, nil
}

// scanScoreRun scans a single row into a ScoreRun.
func scanScoreRun(row pgx.Row) (*domain.ScoreRun, error) {
	var r domain.ScoreRun
	err := row.Scan(
		&r.RunID, &r.GeneratedAt, &r.DataVersion, &r.WeightsVersion,
		&r.TransactionCount, &r.WalletCount, &r.MissingAmounts, &r.MalformedAmounts,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
