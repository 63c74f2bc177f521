package clickhouse

import (
	"context"
	"fmt"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

// PriceTickStore implements journal.PriceTickStore using ClickHouse.
type PriceTickStore struct {
	conn *Conn
}

// NewPriceTickStore creates a new PriceTickStore.
func NewPriceTickStore(conn *Conn) *PriceTickStore {
	return &PriceTickStore{conn: conn}
}

// Compile-time interface check.
var _ journal.PriceTickStore = (*PriceTickStore)(nil)

// InsertBulk appends a batch of ticks.
func (s *PriceTickStore) InsertBulk(ctx context.Context, ticks []*domain.PriceTick) error {
	if len(ticks) == 0 {
		return nil
	}
	for _, tick := range ticks {
		if tick == nil || tick.Mint == "" {
			return journal.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_ticks (
			mint, slot, timestamp_ms, virtual_sol_reserves, virtual_token_reserves, price
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, tick := range ticks {
		err = batch.Append(
			tick.Mint, tick.Slot, tick.TimestampMs,
			tick.VirtualSolReserves, tick.VirtualTokenReserves, tick.Price,
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

// GetByMint retrieves up to limit ticks for a mint ordered by slot.
func (s *PriceTickStore) GetByMint(ctx context.Context, mint string, limit int) ([]*domain.PriceTick, error) {
	query := `
		SELECT mint, slot, timestamp_ms, virtual_sol_reserves, virtual_token_reserves, price
		FROM price_ticks
		WHERE mint = ?
		ORDER BY slot ASC, timestamp_ms ASC
	`
	args := []interface{}{mint}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get ticks by mint: %w", err)
	}
	defer rows.Close()

	var ticks []*domain.PriceTick
	for rows.Next() {
		var tick domain.PriceTick
		err := rows.Scan(
			&tick.Mint, &tick.Slot, &tick.TimestampMs,
			&tick.VirtualSolReserves, &tick.VirtualTokenReserves, &tick.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tick row: %w", err)
		}
		ticks = append(ticks, &tick)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tick rows: %w", err)
	}
	return ticks, nil
}
