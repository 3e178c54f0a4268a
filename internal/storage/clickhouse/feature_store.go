package clickhouse

import (
	"context"
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

// InsertBulk adds the feature vectors of a run in one batch.
// Fails entire batch on duplicate (run_id, wallet).
func (s *FeatureStore) InsertBulk(ctx context.Context, runID string, vectors []*domain.FeatureVector) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(vectors) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(vectors))
	for _, v := range vectors {
		if v == nil || v.Wallet == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[v.Wallet]; exists {
			return storage.ErrDuplicateKey
		}
		seen[v.Wallet] = struct{}{}
	}

	// MergeTree does not enforce keys; a run is written once
	exists, err := runExists(ctx, s.conn, "wallet_features", runID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_features (
			run_id, wallet,
			total_transactions, total_volume, avg_transaction_volume,
			unique_assets, transaction_frequency, liquidation_events,
			action_counts, first_seen, last_seen
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, v := range vectors {
		counts := make(map[string]uint32, len(v.ActionCounts))
		for k, n := range v.ActionCounts {
			counts[k] = uint32(n)
		}
		err = batch.Append(
			runID, v.Wallet,
			uint32(v.TotalTransactions), v.TotalVolume, v.AvgTransactionVolume,
			uint32(v.UniqueAssets), v.TransactionFrequency, uint32(v.LiquidationEvents),
			counts, v.FirstSeen, v.LastSeen,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves the feature vectors of a run, ordered by wallet ASC.
func (s *FeatureStore) GetByRun(ctx context.Context, runID string) ([]*domain.FeatureVector, error) {
	query := `
		SELECT
			wallet,
			total_transactions, total_volume, avg_transaction_volume,
			unique_assets, transaction_frequency, liquidation_events,
			action_counts, first_seen, last_seen
		FROM wallet_features
		WHERE run_id = ?
		ORDER BY wallet ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run: %w", err)
	}
	defer rows.Close()

	var vectors []*domain.FeatureVector
	for rows.Next() {
		var (
			v                         domain.FeatureVector
			total, assets, liquidated uint32
			counts                    map[string]uint32
		)
		err := rows.Scan(
			&v.Wallet,
			&total, &v.TotalVolume, &v.AvgTransactionVolume,
			&assets, &v.TransactionFrequency, &liquidated,
			&counts, &v.FirstSeen, &v.LastSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}
		v.TotalTransactions = int(total)
		v.UniqueAssets = int(assets)
		v.LiquidationEvents = int(liquidated)
		v.ActionCounts = make(map[string]int, len(counts))
		for k, n := range counts {
			v.ActionCounts[k] = int(n)
		}
		vectors = append(vectors, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}

	return vectors, nil
}

// runExists reports whether table already holds rows for runID.
func runExists(ctx context.Context, conn *Conn, table, runID string) (bool, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE run_id = ?`, table)

	var count uint64
	if err := conn.QueryRow(ctx, query, runID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
