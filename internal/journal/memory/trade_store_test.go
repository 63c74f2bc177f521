package memory

import (
	"context"
	"errors"
	"testing"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

func TestTradeStore_InsertAndGet(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	rec := &domain.TradeRecord{
		Signature:   "sig1",
		Side:        domain.TradeSideBuy,
		Mint:        "mintA",
		TokenAmount: 1000,
		Lamports:    500_000_000,
		Price:       0.00000003,
		Slot:        100,
		SubmittedAt: 1000,
	}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetBySignature(ctx, "sig1")
	if err != nil {
		t.Fatalf("GetBySignature failed: %v", err)
	}
	if got.Mint != "mintA" || got.Side != domain.TradeSideBuy {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestTradeStore_DuplicateKey(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	rec := &domain.TradeRecord{Signature: "sig1", Mint: "mintA"}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.Insert(ctx, rec)
	if !errors.Is(err, journal.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_NotFound(t *testing.T) {
	store := NewTradeStore()

	_, err := store.GetBySignature(context.Background(), "missing")
	if !errors.Is(err, journal.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, journal.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.TradeRecord{}); !errors.Is(err, journal.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty signature, got %v", err)
	}
}

func TestTradeStore_GetByMintOrdered(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	records := []*domain.TradeRecord{
		{Signature: "sig2", Mint: "mintA", Side: domain.TradeSideSell, SubmittedAt: 2000},
		{Signature: "sig1", Mint: "mintA", Side: domain.TradeSideBuy, SubmittedAt: 1000},
		{Signature: "sig3", Mint: "mintB", Side: domain.TradeSideBuy, SubmittedAt: 1500},
	}
	for _, rec := range records {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByMint(ctx, "mintA")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Signature != "sig1" || got[1].Signature != "sig2" {
		t.Errorf("records out of order: %s, %s", got[0].Signature, got[1].Signature)
	}
}

func TestTradeStore_ReturnsCopies(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	rec := &domain.TradeRecord{Signature: "sig1", Mint: "mintA", TokenAmount: 10}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.GetBySignature(ctx, "sig1")
	got.TokenAmount = 999

	again, _ := store.GetBySignature(ctx, "sig1")
	if again.TokenAmount != 10 {
		t.Errorf("store data was mutated through a returned record")
	}
}
