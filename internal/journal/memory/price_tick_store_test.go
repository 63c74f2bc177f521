package memory

import (
	"context"
	"errors"
	"testing"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

func TestPriceTickStore_InsertBulkAndGet(t *testing.T) {
	store := NewPriceTickStore()
	ctx := context.Background()

	ticks := []*domain.PriceTick{
		{Mint: "mintA", Slot: 200, TimestampMs: 2000, Price: 0.00000004},
		{Mint: "mintA", Slot: 100, TimestampMs: 1000, Price: 0.00000003},
		{Mint: "mintB", Slot: 150, TimestampMs: 1500, Price: 0.00000005},
	}
	if err := store.InsertBulk(ctx, ticks); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByMint(ctx, "mintA", 0)
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(got))
	}
	if got[0].Slot != 100 || got[1].Slot != 200 {
		t.Errorf("ticks out of slot order: %d, %d", got[0].Slot, got[1].Slot)
	}
}

func TestPriceTickStore_Limit(t *testing.T) {
	store := NewPriceTickStore()
	ctx := context.Background()

	for slot := uint64(1); slot <= 5; slot++ {
		err := store.InsertBulk(ctx, []*domain.PriceTick{{Mint: "mintA", Slot: slot}})
		if err != nil {
			t.Fatalf("InsertBulk failed: %v", err)
		}
	}

	got, err := store.GetByMint(ctx, "mintA", 3)
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(got))
	}
	if got[2].Slot != 3 {
		t.Errorf("limit did not keep earliest slots: %d", got[2].Slot)
	}
}

func TestPriceTickStore_InvalidInput(t *testing.T) {
	store := NewPriceTickStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.PriceTick{{Mint: ""}})
	if !errors.Is(err, journal.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPriceTickStore_EmptyBatch(t *testing.T) {
	store := NewPriceTickStore()

	if err := store.InsertBulk(context.Background(), nil); err != nil {
		t.Errorf("empty batch should succeed, got %v", err)
	}
}
