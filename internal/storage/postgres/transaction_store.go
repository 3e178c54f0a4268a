package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/idhash"
	"wallet-credit-score/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

var transactionColumns = []string{
	"tx_id", "user_wallet", "network", "protocol", "tx_hash", "log_id",
	"timestamp", "block_number", "action",
	"action_type", "amount", "asset_symbol", "asset_price_usd", "pool_id", "user_id",
}

// InsertBulk adds multiple transactions atomically using COPY.
// Fails entire batch on any duplicate tx_id.
func (s *TransactionStore) InsertBulk(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	rows := make([][]any, len(txs))
	for i, t := range txs {
		if t.UserWallet == "" {
			return storage.ErrInvalidInput
		}
		rows[i] = []any{
			idhash.ComputeTransactionID(t), t.UserWallet, t.Network, t.Protocol, t.TxHash, t.LogID,
			t.Timestamp, t.BlockNumber, t.Action,
			t.ActionData.Type, t.ActionData.Amount, t.ActionData.AssetSymbol, t.ActionData.AssetPriceUSD,
			t.ActionData.PoolID, t.ActionData.UserID,
		}
	}

	return s.pool.copyRows(ctx, "transactions", transactionColumns, rows)
}

// GetAll retrieves every stored transaction, ordered by (timestamp ASC, tx_id ASC).
func (s *TransactionStore) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT
			user_wallet, network, protocol, tx_hash, log_id,
			timestamp, block_number, action,
			action_type, amount, asset_symbol, asset_price_usd, pool_id, user_id
		FROM transactions
		ORDER BY timestamp ASC, tx_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the number of stored transactions.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// scanTransactions scans multiple rows into a slice.
func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(
			&t.UserWallet, &t.Network, &t.Protocol, &t.TxHash, &t.LogID,
			&t.Timestamp, &t.BlockNumber, &t.Action,
			&t.ActionData.Type, &t.ActionData.Amount, &t.ActionData.AssetSymbol, &t.ActionData.AssetPriceUSD,
			&t.ActionData.PoolID, &t.ActionData.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
