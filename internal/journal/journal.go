// Package journal persists submitted trades and observed price ticks.
// Writes never block the scan or snipe paths; the recorder buffers and
// flushes in the background.
package journal

import (
	"context"
	"errors"

	"solana-snipe-engine/internal/domain"
)

// Journal errors.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a record whose key already
	// exists. The journal is append-only; updates are not allowed.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// TradeStore persists submitted buy and sell transactions.
type TradeStore interface {
	// Insert adds a trade. Returns ErrDuplicateKey when the signature
	// already exists.
	Insert(ctx context.Context, rec *domain.TradeRecord) error

	// GetBySignature retrieves one trade. Returns ErrNotFound when the
	// signature is unknown.
	GetBySignature(ctx context.Context, signature string) (*domain.TradeRecord, error)

	// GetByMint retrieves all trades for a mint in submission order.
	GetByMint(ctx context.Context, mint string) ([]*domain.TradeRecord, error)
}

// PriceTickStore persists reserve snapshots for offline analysis.
type PriceTickStore interface {
	// InsertBulk appends a batch of ticks.
	InsertBulk(ctx context.Context, ticks []*domain.PriceTick) error

	// GetByMint retrieves up to limit ticks for a mint ordered by slot.
	// A non-positive limit returns everything.
	GetByMint(ctx context.Context, mint string, limit int) ([]*domain.PriceTick, error)
}
