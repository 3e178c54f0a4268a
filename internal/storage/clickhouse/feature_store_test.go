package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

func TestFeatureStore_InsertBulkAndGetByRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFeatureStore(conn)
	ctx := context.Background()

	vectors := []*domain.FeatureVector{
		{
			Wallet:            "0xw2",
			TotalTransactions: 1,
			TotalVolume:       10,
			UniqueAssets:      1,
			LiquidationEvents: 1,
			ActionCounts:      map[string]int{"liquidationcall": 1},
			FirstSeen:         1500,
			LastSeen:          1500,
		},
		{
			Wallet:               "0xw1",
			TotalTransactions:    2,
			TotalVolume:          150,
			AvgTransactionVolume: 75,
			UniqueAssets:         1,
			TransactionFrequency: 500,
			ActionCounts:         map[string]int{"deposit": 1, "borrow": 1},
			FirstSeen:            1000,
			LastSeen:             2000,
		},
	}

	require.NoError(t, store.InsertBulk(ctx, "run1", vectors))

	got, err := store.GetByRun(ctx, "run1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, vectors[1], got[0])
	assert.Equal(t, vectors[0], got[1])
}

func TestFeatureStore_DuplicateRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFeatureStore(conn)
	ctx := context.Background()

	vectors := []*domain.FeatureVector{{Wallet: "0xw1", ActionCounts: map[string]int{}}}
	require.NoError(t, store.InsertBulk(ctx, "run1", vectors))
	assert.ErrorIs(t, store.InsertBulk(ctx, "run1", vectors), storage.ErrDuplicateKey)

	// Other runs are unaffected
	require.NoError(t, store.InsertBulk(ctx, "run2", vectors))
}

func TestFeatureStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFeatureStore(conn)

	v := &domain.FeatureVector{Wallet: "0xw1"}
	err := store.InsertBulk(context.Background(), "run1", []*domain.FeatureVector{v, v})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
