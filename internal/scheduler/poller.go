package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/gagliardetto/solana-go"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/engine"
	"solana-snipe-engine/internal/observability"
	"solana-snipe-engine/internal/reserves"
)

// DefaultPollInterval controls how often due sells are checked.
const DefaultPollInterval = time.Second

// PollerConfig tunes the sell release loop.
type PollerConfig struct {
	// Interval between schedule checks. Zero falls back to
	// DefaultPollInterval.
	Interval time.Duration

	// BuyAmountLamports is the configured entry size, used to estimate a
	// sell amount when the stored amount was lost.
	BuyAmountLamports uint64
}

// Poller drains the sell schedule, submitting an exit transaction for every
// position whose hold period has expired.
type Poller struct {
	cfg      PollerConfig
	queue    Queue
	trader   engine.Trader
	anchors  engine.AnchorSource
	recorder engine.TradeRecorder
	metrics  *observability.Metrics
	log      *log.Logger
}

// NewPoller wires a sell release loop.
func NewPoller(cfg PollerConfig, queue Queue, trader engine.Trader, anchors engine.AnchorSource, recorder engine.TradeRecorder, metrics *observability.Metrics, logger *log.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[seller] ", log.LstdFlags)
	}
	return &Poller{
		cfg:      cfg,
		queue:    queue,
		trader:   trader,
		anchors:  anchors,
		recorder: recorder,
		metrics:  metrics,
		log:      logger,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.ReleaseDue(ctx, now)
		}
	}
}

// ReleaseDue claims and submits every sell due at now. One blockhash anchors
// the whole batch; a failed fetch falls back to per-transaction fetching
// inside the trader.
func (p *Poller) ReleaseDue(ctx context.Context, now time.Time) {
	pending, err := p.queue.ClaimDue(ctx, now)
	if err != nil {
		p.log.Printf("claim due sells: %v", err)
		return
	}
	if len(pending) == 0 {
		p.updatePendingGauge(ctx)
		return
	}

	var anchor *solana.Hash
	if hash, err := p.anchors.Get(ctx); err != nil {
		p.log.Printf("blockhash fetch failed, deferring to trader: %v", err)
	} else {
		anchor = &hash
	}

	for _, sell := range pending {
		p.release(ctx, sell, anchor)
	}
	p.updatePendingGauge(ctx)
}

func (p *Poller) release(ctx context.Context, sell PendingSell, anchor *solana.Hash) {
	mint, err := solana.PublicKeyFromBase58(sell.Mint)
	if err != nil {
		p.log.Printf("dropping sell with bad mint %q: %v", sell.Mint, err)
		return
	}

	amount := sell.TokenAmount
	if !sell.HasAmount {
		// The amount record was lost; estimate from the configured entry
		// size at the bootstrap price rather than abandoning the position.
		amount = engine.SizeBuy(p.cfg.BuyAmountLamports, reserves.DefaultPrice)
		p.log.Printf("amount missing for %s, estimating %d", sell.Mint, amount)
	}
	if amount == 0 {
		p.log.Printf("dropping sell for %s with zero amount", sell.Mint)
		return
	}

	sig, err := p.trader.Sell(ctx, mint, amount, 0, anchor)
	if err != nil {
		p.metrics.SellsFailed.Inc()
		p.log.Printf("sell failed mint=%s: %v", sell.Mint, err)
		return
	}

	p.metrics.SellsReleased.Inc()
	p.recorder.RecordTrade(domain.TradeRecord{
		Signature:   sig.String(),
		Side:        domain.TradeSideSell,
		Mint:        sell.Mint,
		TokenAmount: amount,
		SubmittedAt: time.Now().UnixMilli(),
	})
	p.log.Printf("sold mint=%s tokens=%d sig=%s", sell.Mint, amount, sig)
}

func (p *Poller) updatePendingGauge(ctx context.Context) {
	if n, err := p.queue.Len(ctx); err == nil {
		p.metrics.PendingSells.Set(float64(n))
	}
}
