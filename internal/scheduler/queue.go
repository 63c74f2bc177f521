// Package scheduler holds sniped positions until their exit time and
// releases the sells. The schedule is durable when backed by Redis, so a
// restart never orphans an open position.
package scheduler

import (
	"context"
	"time"
)

// PendingSell is a position whose hold period has expired.
type PendingSell struct {
	Mint        string
	TokenAmount uint64
	// HasAmount is false when the amount record was lost. The poller then
	// falls back to a sizing estimate rather than dropping the exit.
	HasAmount bool
}

// Queue is a durable delayed-sell schedule.
type Queue interface {
	// Schedule registers an exit for mint to be released after delay.
	// Scheduling the same mint again moves its due time and amount.
	Schedule(ctx context.Context, mint string, tokenAmount uint64, delay time.Duration) error

	// ClaimDue removes and returns every entry whose due time has passed.
	// A claimed entry is gone from the schedule; no two callers can claim
	// the same entry.
	ClaimDue(ctx context.Context, now time.Time) ([]PendingSell, error)

	// Len reports the number of scheduled entries.
	Len(ctx context.Context) (int, error)
}
