package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

func TestPriceTickStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceTickStore(conn)
	ctx := context.Background()

	ticks := []*domain.PriceTick{
		{Mint: "mintA", Slot: 100, TimestampMs: 1000, VirtualSolReserves: 30_000_000_000, VirtualTokenReserves: 1_073_000_000_000_000, Price: 0.00000002796},
		{Mint: "mintA", Slot: 101, TimestampMs: 1400, VirtualSolReserves: 32_000_000_000, VirtualTokenReserves: 1_072_000_000_000_000, Price: 0.00000002985},
		{Mint: "mintB", Slot: 100, TimestampMs: 1100, VirtualSolReserves: 30_000_000_000, VirtualTokenReserves: 1_073_000_000_000_000, Price: 0.00000002796},
	}
	require.NoError(t, store.InsertBulk(ctx, ticks))

	got, err := store.GetByMint(ctx, "mintA", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(100), got[0].Slot)
	assert.Equal(t, uint64(101), got[1].Slot)
	assert.Equal(t, uint64(30_000_000_000), got[0].VirtualSolReserves)
	assert.InDelta(t, 0.00000002796, got[0].Price, 1e-14)
}

func TestPriceTickStore_Limit(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceTickStore(conn)
	ctx := context.Background()

	var ticks []*domain.PriceTick
	for slot := uint64(1); slot <= 5; slot++ {
		ticks = append(ticks, &domain.PriceTick{Mint: "mintA", Slot: slot, TimestampMs: int64(slot * 100)})
	}
	require.NoError(t, store.InsertBulk(ctx, ticks))

	got, err := store.GetByMint(ctx, "mintA", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(3), got[2].Slot)
}

func TestPriceTickStore_EmptyAndInvalid(t *testing.T) {
	store := NewPriceTickStore(nil)
	ctx := context.Background()

	assert.NoError(t, store.InsertBulk(ctx, nil))
	assert.ErrorIs(t, store.InsertBulk(ctx, []*domain.PriceTick{{Mint: ""}}), journal.ErrInvalidInput)
}
