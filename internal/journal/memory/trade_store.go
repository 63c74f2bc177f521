// Package memory provides in-memory journal stores for tests and dry runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

// TradeStore is an in-memory implementation of journal.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by signature
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{data: make(map[string]*domain.TradeRecord)}
}

// Compile-time interface check.
var _ journal.TradeStore = (*TradeStore)(nil)

// Insert adds a trade. Returns ErrDuplicateKey if the signature exists.
func (s *TradeStore) Insert(_ context.Context, rec *domain.TradeRecord) error {
	if rec == nil || rec.Signature == "" {
		return journal.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.Signature]; exists {
		return journal.ErrDuplicateKey
	}
	recCopy := *rec
	s.data[rec.Signature] = &recCopy
	return nil
}

// GetBySignature retrieves a trade by signature.
func (s *TradeStore) GetBySignature(_ context.Context, signature string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[signature]
	if !ok {
		return nil, journal.ErrNotFound
	}
	recCopy := *rec
	return &recCopy, nil
}

// GetByMint retrieves all trades for a mint ordered by submission time.
func (s *TradeStore) GetByMint(_ context.Context, mint string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, rec := range s.data {
		if rec.Mint == mint {
			recCopy := *rec
			result = append(result, &recCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SubmittedAt != result[j].SubmittedAt {
			return result[i].SubmittedAt < result[j].SubmittedAt
		}
		return result[i].Signature < result[j].Signature
	})
	return result, nil
}
