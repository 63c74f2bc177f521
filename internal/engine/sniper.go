// Package engine holds the snipe decision logic and the transaction scan
// pipeline that drives it.
package engine

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/observability"
)

// Trader submits buy and sell transactions. A nil anchor means the
// implementation must fetch a fresh blockhash itself.
type Trader interface {
	Buy(ctx context.Context, mint solana.PublicKey, tokenAmount, maxCostLamports uint64, anchor *solana.Hash) (solana.Signature, error)
	Sell(ctx context.Context, mint solana.PublicKey, tokenAmount, minReceiveLamports uint64, anchor *solana.Hash) (solana.Signature, error)
}

// AnchorSource produces a recent blockhash for transaction assembly.
type AnchorSource interface {
	Get(ctx context.Context) (solana.Hash, error)
}

// SellScheduler queues an exit to be released after the hold delay.
type SellScheduler interface {
	Schedule(ctx context.Context, mint string, tokenAmount uint64, delay time.Duration) error
}

// TradeRecorder accepts trade and price records for the journal. Both calls
// must be non-blocking; the hot path never waits on the journal.
type TradeRecorder interface {
	RecordTrade(rec domain.TradeRecord)
	RecordTick(tick domain.PriceTick)
}

// Sniper evaluates observed buys and fires entry transactions when a buy's
// SOL amount lands in the configured trigger window.
type Sniper struct {
	cfg      SnipeConfig
	trader   Trader
	anchors  AnchorSource
	queue    SellScheduler
	recorder TradeRecorder
	metrics  *observability.Metrics
	log      *log.Logger
}

// NewSniper wires a sniper from its collaborators.
func NewSniper(cfg SnipeConfig, trader Trader, anchors AnchorSource, queue SellScheduler, recorder TradeRecorder, metrics *observability.Metrics, logger *log.Logger) *Sniper {
	if logger == nil {
		logger = log.New(log.Writer(), "[sniper] ", log.LstdFlags)
	}
	return &Sniper{
		cfg:      cfg,
		trader:   trader,
		anchors:  anchors,
		queue:    queue,
		recorder: recorder,
		metrics:  metrics,
		log:      logger,
	}
}

// SizeBuy converts a SOL budget into a token amount at the given price, with
// a 15% haircut absorbing the price impact of the fill. The result is in
// 6-decimal base units, floored.
func SizeBuy(budgetLamports uint64, price float64) uint64 {
	if price <= 0 {
		return 0
	}
	tokens := float64(budgetLamports) / 1e9 / price * 0.85
	return uint64(math.Floor(tokens * 1e6))
}

// Evaluate decides whether the observed buy warrants an entry and, if so,
// submits one and schedules the exit. The gate is the observed buy's SOL
// amount; price only sizes the entry. Safe to run on its own goroutine; it
// touches no ledger state.
func (s *Sniper) Evaluate(ctx context.Context, mint solana.PublicKey, solLamports uint64, price float64, slot uint64) {
	if !s.cfg.ShouldSnipe(solLamports) {
		return
	}
	if price <= 0 {
		return
	}

	started := time.Now()

	tokenAmount := SizeBuy(s.cfg.BuyAmountLamports, price)
	if tokenAmount == 0 {
		return
	}

	var anchor *solana.Hash
	if hash, err := s.anchors.Get(ctx); err != nil {
		s.log.Printf("blockhash fetch failed, deferring to trader: %v", err)
	} else {
		anchor = &hash
	}

	sig, err := s.trader.Buy(ctx, mint, tokenAmount, s.cfg.BuyAmountLamports, anchor)
	if err != nil {
		s.log.Printf("buy failed mint=%s: %v", mint, err)
		return
	}

	s.metrics.SnipesExecuted.Inc()
	s.metrics.SnipeLatency.Observe(time.Since(started).Seconds())

	if err := s.queue.Schedule(ctx, mint.String(), tokenAmount, s.cfg.SellDelay); err != nil {
		s.log.Printf("sell schedule failed mint=%s: %v", mint, err)
	}

	s.recorder.RecordTrade(domain.TradeRecord{
		Signature:   sig.String(),
		Side:        domain.TradeSideBuy,
		Mint:        mint.String(),
		TokenAmount: tokenAmount,
		Lamports:    s.cfg.BuyAmountLamports,
		Price:       price,
		Slot:        slot,
		SubmittedAt: started.UnixMilli(),
	})

	s.log.Printf("sniped mint=%s price=%.12f tokens=%d sig=%s latency=%s",
		mint, price, tokenAmount, sig, time.Since(started))
}
