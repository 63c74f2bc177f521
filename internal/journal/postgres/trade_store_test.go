package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

func TestTradeStore_InsertAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(pool)
	ctx := context.Background()

	rec := &domain.TradeRecord{
		Signature:   "sig1",
		Side:        domain.TradeSideBuy,
		Mint:        "mintA",
		TokenAmount: 28_333_333_333,
		Lamports:    1_000_000_000,
		Price:       0.00000003,
		Slot:        1234,
		SubmittedAt: 1_700_000_000_000,
	}
	require.NoError(t, store.Insert(ctx, rec))

	got, err := store.GetBySignature(ctx, "sig1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// Duplicate signature is rejected.
	err = store.Insert(ctx, rec)
	assert.ErrorIs(t, err, journal.ErrDuplicateKey)
}

func TestTradeStore_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(pool)

	_, err := store.GetBySignature(context.Background(), "missing")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestTradeStore_GetByMint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(pool)
	ctx := context.Background()

	records := []*domain.TradeRecord{
		{Signature: "sig2", Side: domain.TradeSideSell, Mint: "mintA", SubmittedAt: 2000},
		{Signature: "sig1", Side: domain.TradeSideBuy, Mint: "mintA", SubmittedAt: 1000},
		{Signature: "sig3", Side: domain.TradeSideBuy, Mint: "mintB", SubmittedAt: 1500},
	}
	for _, rec := range records {
		require.NoError(t, store.Insert(ctx, rec))
	}

	got, err := store.GetByMint(ctx, "mintA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sig1", got[0].Signature)
	assert.Equal(t, "sig2", got[1].Signature)

	got, err = store.GetByMint(ctx, "mintC")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore(nil)
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), journal.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &domain.TradeRecord{}), journal.ErrInvalidInput)
}
