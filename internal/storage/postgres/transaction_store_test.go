package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

func testTransaction(wallet, txHash string, ts int64, action string) domain.Transaction {
	return domain.Transaction{
		UserWallet:  wallet,
		Network:     "polygon",
		Protocol:    "aave_v2",
		TxHash:      txHash,
		LogID:       txHash + "_1",
		Timestamp:   ts,
		BlockNumber: 1629178166,
		Action:      action,
		ActionData: domain.ActionData{
			Type:          "Deposit",
			Amount:        "2000000000",
			AssetSymbol:   "USDC",
			AssetPriceUSD: "0.9938318274296357543568636362026045",
			PoolID:        "0x2791bca1f2de4661ed88a30c99a7a9449aa84174",
			UserID:        wallet,
		},
	}
}

func TestTransactionStore_InsertBulkAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransactionStore(pool)
	ctx := context.Background()

	txs := []domain.Transaction{
		testTransaction("0xw1", "0xc", 3000, domain.ActionRepay),
		testTransaction("0xw2", "0xa", 1000, domain.ActionDeposit),
		testTransaction("0xw1", "0xb", 2000, domain.ActionBorrow),
	}

	require.NoError(t, store.InsertBulk(ctx, txs))

	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "0xa", got[0].TxHash)
	assert.Equal(t, "0xb", got[1].TxHash)
	assert.Equal(t, "0xc", got[2].TxHash)

	// Raw amount text survives unchanged
	assert.Equal(t, txs[1], got[0])

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestTransactionStore_DuplicateRejection(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransactionStore(pool)
	ctx := context.Background()

	tx := testTransaction("0xw1", "0xa", 1000, domain.ActionDeposit)
	require.NoError(t, store.InsertBulk(ctx, []domain.Transaction{tx}))

	err := store.InsertBulk(ctx, []domain.Transaction{
		testTransaction("0xw2", "0xb", 2000, domain.ActionDeposit),
		tx,
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Entire batch rolled back
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTransactionStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransactionStore(pool)

	err := store.InsertBulk(context.Background(), []domain.Transaction{testTransaction("", "0xa", 1, domain.ActionDeposit)})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
