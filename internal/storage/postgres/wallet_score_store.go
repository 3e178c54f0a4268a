package postgres

import (
	"context"
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// WalletScoreStore implements storage.WalletScoreStore using PostgreSQL.
// The run must be inserted into score_runs first.
type WalletScoreStore struct {
	pool *Pool
}

// NewWalletScoreStore creates a new WalletScoreStore.
func NewWalletScoreStore(pool *Pool) *WalletScoreStore {
	return &WalletScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletScoreStore = (*WalletScoreStore)(nil)

var walletScoreColumns = []string{"run_id", "wallet", "score", "rank", "band"}

// InsertBulk adds the score table of a run atomically.
// Fails entire batch on duplicate (run_id, wallet).
func (s *WalletScoreStore) InsertBulk(ctx context.Context, runID string, scores []domain.WalletScore) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(scores) == 0 {
		return nil
	}

	rows := make([][]any, len(scores))
	for i, sc := range scores {
		if sc.Wallet == "" {
			return storage.ErrInvalidInput
		}
		rows[i] = []any{runID, sc.Wallet, sc.Score, sc.Rank, sc.Band}
	}

	return s.pool.copyRows(ctx, "wallet_scores", walletScoreColumns, rows)
}

// GetByRun retrieves the scores of a run, ordered by rank ASC.
func (s *WalletScoreStore) GetByRun(ctx context.Context, runID string) ([]domain.WalletScore, error) {
	query := `
		SELECT wallet, score, rank, band
		FROM wallet_scores
		WHERE run_id = $1
		ORDER BY rank ASC, wallet ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get wallet scores by run: %w", err)
	}
	defer rows.Close()

	var scores []domain.WalletScore
	for rows.Next() {
		var sc domain.WalletScore
		if err := rows.Scan(&sc.Wallet, &sc.Score, &sc.Rank, &sc.Band); err != nil {
			return nil, fmt.Errorf("scan wallet score row: %w", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet score rows: %w", err)
	}

	return scores, nil
}
