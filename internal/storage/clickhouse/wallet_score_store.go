package clickhouse

import (
	"context"
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// WalletScoreStore implements storage.WalletScoreStore using ClickHouse.
type WalletScoreStore struct {
	conn *Conn
}

// NewWalletScoreStore creates a new WalletScoreStore.
func NewWalletScoreStore(conn *Conn) *WalletScoreStore {
	return &WalletScoreStore{conn: conn}
}

// Compile-time interface check.
var _ storage.WalletScoreStore = (*WalletScoreStore)(nil)

// InsertBulk adds the score table of a run in one batch.
// Fails entire batch on duplicate (run_id, wallet).
func (s *WalletScoreStore) InsertBulk(ctx context.Context, runID string, scores []domain.WalletScore) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(scores) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(scores))
	for _, sc := range scores {
		if sc.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[sc.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		seen[sc.Wallet] = struct{}{}
	}

	exists, err := runExists(ctx, s.conn, "wallet_scores", runID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_scores (run_id, wallet, score, rank, band)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sc := range scores {
		if err := batch.Append(runID, sc.Wallet, sc.Score, uint32(sc.Rank), sc.Band); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves the scores of a run, ordered by rank ASC.
func (s *WalletScoreStore) GetByRun(ctx context.Context, runID string) ([]domain.WalletScore, error) {
	query := `
		SELECT wallet, score, rank, band
		FROM wallet_scores
		WHERE run_id = ?
		ORDER BY rank ASC, wallet ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run: %w", err)
	}
	defer rows.Close()

	var scores []domain.WalletScore
	for rows.Next() {
		var (
			sc   domain.WalletScore
			rank uint32
		)
		if err := rows.Scan(&sc.Wallet, &sc.Score, &rank, &sc.Band); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		sc.Rank = int(rank)
		scores = append(scores, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score rows: %w", err)
	}

	return scores, nil
}
