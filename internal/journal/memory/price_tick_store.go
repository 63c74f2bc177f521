package memory

import (
	"context"
	"sort"
	"sync"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/journal"
)

// PriceTickStore is an in-memory implementation of journal.PriceTickStore.
type PriceTickStore struct {
	mu   sync.RWMutex
	data []*domain.PriceTick
}

// NewPriceTickStore creates a new in-memory price tick store.
func NewPriceTickStore() *PriceTickStore {
	return &PriceTickStore{}
}

// Compile-time interface check.
var _ journal.PriceTickStore = (*PriceTickStore)(nil)

// InsertBulk appends a batch of ticks. Duplicates are allowed; ticks are a
// time series, not keyed records.
func (s *PriceTickStore) InsertBulk(_ context.Context, ticks []*domain.PriceTick) error {
	for _, tick := range ticks {
		if tick == nil || tick.Mint == "" {
			return journal.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tick := range ticks {
		tickCopy := *tick
		s.data = append(s.data, &tickCopy)
	}
	return nil
}

// GetByMint retrieves up to limit ticks for a mint ordered by slot.
func (s *PriceTickStore) GetByMint(_ context.Context, mint string, limit int) ([]*domain.PriceTick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PriceTick
	for _, tick := range s.data {
		if tick.Mint == mint {
			tickCopy := *tick
			result = append(result, &tickCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Slot != result[j].Slot {
			return result[i].Slot < result[j].Slot
		}
		return result[i].TimestampMs < result[j].TimestampMs
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
