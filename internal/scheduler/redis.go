package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. The sorted set orders mints by due time in unix
// milliseconds; the hash carries token amounts as decimal strings.
const (
	mintsToSellKey = "mints_to_sell"
	mintAmountsKey = "mint_amounts"
)

// RedisQueue is a Queue backed by a Redis sorted set. Entries survive
// process restarts.
type RedisQueue struct {
	client redis.UniversalClient

	// claimMu serializes ClaimDue so concurrent pollers cannot double-claim
	// between the range read and the removal.
	claimMu sync.Mutex
}

// NewRedisQueue returns a durable queue over client.
func NewRedisQueue(client redis.UniversalClient) *RedisQueue {
	return &RedisQueue{client: client}
}

// Schedule writes the due time and amount in one pipeline round trip.
func (q *RedisQueue) Schedule(ctx context.Context, mint string, tokenAmount uint64, delay time.Duration) error {
	due := time.Now().Add(delay).UnixMilli()

	pipe := q.client.TxPipeline()
	pipe.ZAdd(ctx, mintsToSellKey, redis.Z{Score: float64(due), Member: mint})
	pipe.HSet(ctx, mintAmountsKey, mint, strconv.FormatUint(tokenAmount, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("schedule sell for %s: %w", mint, err)
	}
	return nil
}

// ClaimDue pops every entry due at or before now.
func (q *RedisQueue) ClaimDue(ctx context.Context, now time.Time) ([]PendingSell, error) {
	q.claimMu.Lock()
	defer q.claimMu.Unlock()

	mints, err := q.client.ZRangeByScore(ctx, mintsToSellKey, &redis.ZRangeBy{
		Min: "0",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read due sells: %w", err)
	}
	if len(mints) == 0 {
		return nil, nil
	}

	pending := make([]PendingSell, 0, len(mints))
	for _, mint := range mints {
		sell := PendingSell{Mint: mint}
		raw, err := q.client.HGet(ctx, mintAmountsKey, mint).Result()
		if err == nil {
			if amount, perr := strconv.ParseUint(raw, 10, 64); perr == nil {
				sell.TokenAmount = amount
				sell.HasAmount = true
			}
		} else if err != redis.Nil {
			return nil, fmt.Errorf("read amount for %s: %w", mint, err)
		}
		pending = append(pending, sell)
	}

	members := make([]interface{}, len(mints))
	for i, m := range mints {
		members[i] = m
	}
	pipe := q.client.TxPipeline()
	pipe.ZRem(ctx, mintsToSellKey, members...)
	pipe.HDel(ctx, mintAmountsKey, mints...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("remove claimed sells: %w", err)
	}

	return pending, nil
}

// Len reports the sorted set cardinality.
func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	n, err := q.client.ZCard(ctx, mintsToSellKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count scheduled sells: %w", err)
	}
	return int(n), nil
}
