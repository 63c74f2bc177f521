package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

// TradeStore implements journal.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ journal.TradeStore = (*TradeStore)(nil)

// Insert adds a trade. Returns ErrDuplicateKey if the signature exists.
func (s *TradeStore) Insert(ctx context.Context, rec *domain.TradeRecord) error {
	if rec == nil || rec.Signature == "" {
		return journal.ErrInvalidInput
	}

	query := `
		INSERT INTO trade_records (
			signature, side, mint, token_amount, lamports, price, slot, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.Signature, string(rec.Side), rec.Mint,
		int64(rec.TokenAmount), int64(rec.Lamports),
		rec.Price, int64(rec.Slot), rec.SubmittedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return journal.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// GetBySignature retrieves a trade by its signature.
func (s *TradeStore) GetBySignature(ctx context.Context, signature string) (*domain.TradeRecord, error) {
	query := `
		SELECT signature, side, mint, token_amount, lamports, price, slot, submitted_at
		FROM trade_records
		WHERE signature = $1
	`

	rec, err := scanTradeRecord(s.pool.QueryRow(ctx, query, signature))
	if err != nil {
		if isNotFoundError(err) {
			return nil, journal.ErrNotFound
		}
		return nil, fmt.Errorf("get trade record by signature: %w", err)
	}
	return rec, nil
}

// GetByMint retrieves all trades for a mint in submission order.
func (s *TradeStore) GetByMint(ctx context.Context, mint string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT signature, side, mint, token_amount, lamports, price, slot, submitted_at
		FROM trade_records
		WHERE mint = $1
		ORDER BY submitted_at ASC, signature ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get trade records by mint: %w", err)
	}
	defer rows.Close()

	var records []*domain.TradeRecord
	for rows.Next() {
		rec, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}
	return records, nil
}

// scanTradeRecord scans one row into a TradeRecord.
func scanTradeRecord(row pgx.Row) (*domain.TradeRecord, error) {
	var (
		rec         domain.TradeRecord
		side        string
		tokenAmount int64
		lamports    int64
		slot        int64
	)
	err := row.Scan(
		&rec.Signature, &side, &rec.Mint,
		&tokenAmount, &lamports, &rec.Price, &slot, &rec.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Side = domain.TradeSide(side)
	rec.TokenAmount = uint64(tokenAmount)
	rec.Lamports = uint64(lamports)
	rec.Slot = uint64(slot)
	return &rec, nil
}
