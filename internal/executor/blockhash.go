package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"solana-snipe-engine/internal/observability"
)

// DefaultBlockhashMaxAge bounds how stale a cached blockhash may be. Solana
// blockhashes stay valid for roughly a minute, but a snipe anchored to an old
// hash competes badly for inclusion, so the window is kept tight.
const DefaultBlockhashMaxAge = 500 * time.Millisecond

// BlockhashFetcher fetches a recent blockhash. *rpc.Client satisfies it.
type BlockhashFetcher interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// BlockhashCache serves a recent blockhash without an RPC round trip on the
// hot path. Safe for concurrent use.
type BlockhashCache struct {
	fetcher BlockhashFetcher
	maxAge  time.Duration
	metrics *observability.Metrics
	now     func() time.Time

	mu         sync.Mutex
	hash       solana.Hash
	capturedAt time.Time
}

// NewBlockhashCache returns a cache over fetcher. A non-positive maxAge
// falls back to DefaultBlockhashMaxAge.
func NewBlockhashCache(fetcher BlockhashFetcher, maxAge time.Duration, metrics *observability.Metrics) *BlockhashCache {
	if maxAge <= 0 {
		maxAge = DefaultBlockhashMaxAge
	}
	return &BlockhashCache{
		fetcher: fetcher,
		maxAge:  maxAge,
		metrics: metrics,
		now:     time.Now,
	}
}

// Get returns the cached blockhash, refreshing it first when the cached
// value is older than the freshness window.
func (c *BlockhashCache) Get(ctx context.Context) (solana.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.capturedAt.IsZero() && c.now().Sub(c.capturedAt) < c.maxAge {
		return c.hash, nil
	}

	out, err := c.fetcher.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("refresh blockhash: %w", err)
	}
	c.metrics.BlockhashRefreshes.Inc()

	c.hash = out.Value.Blockhash
	c.capturedAt = c.now()
	return c.hash, nil
}
