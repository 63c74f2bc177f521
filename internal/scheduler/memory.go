package scheduler

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	due         time.Time
	tokenAmount uint64
}

// MemoryQueue is an in-memory Queue for tests and dry runs. Entries do not
// survive a restart.
type MemoryQueue struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryQueue returns an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{entries: make(map[string]memoryEntry)}
}

// Schedule registers or reschedules an exit for mint.
func (q *MemoryQueue) Schedule(_ context.Context, mint string, tokenAmount uint64, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[mint] = memoryEntry{due: time.Now().Add(delay), tokenAmount: tokenAmount}
	return nil
}

// ClaimDue pops every entry due at or before now.
func (q *MemoryQueue) ClaimDue(_ context.Context, now time.Time) ([]PendingSell, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var pending []PendingSell
	for mint, entry := range q.entries {
		if entry.due.After(now) {
			continue
		}
		pending = append(pending, PendingSell{
			Mint:        mint,
			TokenAmount: entry.tokenAmount,
			HasAmount:   true,
		})
		delete(q.entries, mint)
	}
	return pending, nil
}

// Len reports the number of scheduled entries.
func (q *MemoryQueue) Len(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries), nil
}
