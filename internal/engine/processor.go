package engine

import (
	"context"
	"log"
	"time"

	"github.com/gagliardetto/solana-go"

	"solana-snipe-engine/internal/codec"
	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/observability"
	"solana-snipe-engine/internal/reserves"
)

// ProcessorConfig selects which transactions the scan pipeline inspects.
type ProcessorConfig struct {
	// TargetAccount gates the scan: only transactions referencing this
	// account are decoded at all.
	TargetAccount string

	// Programs are the program IDs whose instructions are decoded. Any
	// instruction owned by another program is skipped.
	Programs []string
}

// Processor is the scan pipeline. It filters entry batches down to relevant
// instructions, applies them to the reserve ledger, and hands observed buys
// to the sniper. All ledger access happens on the caller's goroutine; only
// snipe evaluation is spawned off.
type Processor struct {
	cfg      ProcessorConfig
	ledger   *reserves.Ledger
	sniper   *Sniper
	recorder TradeRecorder
	metrics  *observability.Metrics
	log      *log.Logger

	programs map[string]struct{}
}

// NewProcessor builds the scan pipeline.
func NewProcessor(cfg ProcessorConfig, ledger *reserves.Ledger, sniper *Sniper, recorder TradeRecorder, metrics *observability.Metrics, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.New(log.Writer(), "[scan] ", log.LstdFlags)
	}
	programs := make(map[string]struct{}, len(cfg.Programs))
	for _, p := range cfg.Programs {
		programs[p] = struct{}{}
	}
	return &Processor{
		cfg:      cfg,
		ledger:   ledger,
		sniper:   sniper,
		recorder: recorder,
		metrics:  metrics,
		log:      logger,
		programs: programs,
	}
}

// ProcessBatch scans every transaction in an entry batch.
func (p *Processor) ProcessBatch(ctx context.Context, batch domain.EntryBatch) {
	p.metrics.EntriesProcessed.Inc()
	p.Process(ctx, batch.Transactions, batch.Slot)
}

// Process scans a slice of transactions observed at slot.
func (p *Processor) Process(ctx context.Context, txs []domain.Transaction, slot uint64) {
	for i := range txs {
		p.processTransaction(ctx, &txs[i], slot)
	}
	p.metrics.TrackedTokens.Set(float64(p.ledger.Len()))
}

func (p *Processor) processTransaction(ctx context.Context, tx *domain.Transaction, slot uint64) {
	if !tx.HasAccount(p.cfg.TargetAccount) {
		return
	}
	// Account layout convention: fee payer, mint, bonding curve.
	if len(tx.AccountKeys) < 3 {
		return
	}
	mint := tx.AccountKeys[1]

	for _, ix := range tx.Instructions {
		if _, ok := p.programs[tx.ProgramID(ix)]; !ok {
			continue
		}
		p.metrics.InstructionsScanned.Inc()

		decoded, err := codec.Decode(ix.Data)
		if err != nil {
			p.metrics.DecodeErrors.Inc()
			p.log.Printf("decode failed slot=%d mint=%s: %v", slot, mint, err)
			continue
		}

		switch decoded.Kind {
		case codec.KindCreate:
			p.applyCreate(mint, decoded.Create, tx, slot)
		case codec.KindBuy:
			p.applyBuy(ctx, mint, decoded.Buy, slot)
		}
	}
}

func (p *Processor) applyCreate(mint string, ev *codec.CreateEvent, tx *domain.Transaction, slot uint64) {
	creator := ev.Creator.String()
	if ev.Creator.IsZero() {
		creator = tx.AccountKeys[0]
	}

	p.ledger.OnCreate(mint)
	p.metrics.TokensLaunched.Inc()
	p.log.Printf("launch slot=%d mint=%s symbol=%q creator=%s", slot, mint, ev.Symbol, creator)

	p.recordTick(mint, slot)
}

func (p *Processor) applyBuy(ctx context.Context, mint string, ev *codec.BuyEvent, slot uint64) {
	price := p.ledger.PriceOf(mint)

	// The sniper sees the pre-update price, matching what this buy actually
	// executed at. Evaluation runs concurrently; the ledger mutation below
	// never waits on it.
	if key, err := solana.PublicKeyFromBase58(mint); err == nil {
		p.metrics.SnipesEvaluated.Inc()
		go p.sniper.Evaluate(ctx, key, ev.MaxSolCost, price, slot)
	}

	p.ledger.OnBuy(mint, ev.MaxSolCost, ev.TokenAmount)
	p.recordTick(mint, slot)
}

func (p *Processor) recordTick(mint string, slot uint64) {
	st, ok := p.ledger.Snapshot(mint)
	if !ok {
		return
	}
	p.recorder.RecordTick(domain.PriceTick{
		Mint:                 mint,
		Slot:                 slot,
		TimestampMs:          time.Now().UnixMilli(),
		VirtualSolReserves:   st.VirtualSolReserves,
		VirtualTokenReserves: st.VirtualTokenReserves,
		Price:                p.ledger.PriceOf(mint),
	})
}
