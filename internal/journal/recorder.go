package journal

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"solana-snipe-engine/internal/domain"
	"solana-snipe-engine/internal/observability"
)

const (
	recorderBufferSize = 4096
	flushBatchSize     = 256
	flushInterval      = time.Second
)

// Recorder buffers trade and tick records and flushes them to the stores in
// the background. Both Record methods are non-blocking: when a buffer is
// full the record is dropped and counted, never waited on.
type Recorder struct {
	trades  TradeStore
	ticks   PriceTickStore
	metrics *observability.Metrics
	log     *log.Logger

	tradeCh chan domain.TradeRecord
	tickCh  chan domain.PriceTick

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// NewRecorder starts a recorder flushing into the given stores.
func NewRecorder(trades TradeStore, ticks PriceTickStore, metrics *observability.Metrics, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(log.Writer(), "[journal] ", log.LstdFlags)
	}
	r := &Recorder{
		trades:  trades,
		ticks:   ticks,
		metrics: metrics,
		log:     logger,
		tradeCh: make(chan domain.TradeRecord, recorderBufferSize),
		tickCh:  make(chan domain.PriceTick, recorderBufferSize),
		stop:    make(chan struct{}),
	}
	r.done.Add(1)
	go r.flushLoop()
	return r
}

// RecordTrade queues a trade for persistence.
func (r *Recorder) RecordTrade(rec domain.TradeRecord) {
	select {
	case r.tradeCh <- rec:
	default:
		r.metrics.RecordsDropped.WithLabelValues("trade").Inc()
	}
}

// RecordTick queues a price tick for persistence.
func (r *Recorder) RecordTick(tick domain.PriceTick) {
	select {
	case r.tickCh <- tick:
	default:
		r.metrics.RecordsDropped.WithLabelValues("tick").Inc()
	}
}

// Close flushes buffered records and stops the background loop.
func (r *Recorder) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.done.Wait()
}

func (r *Recorder) flushLoop() {
	defer r.done.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.stop:
			r.flush()
			return
		}
	}
}

// flush drains both buffers. Storage failures are logged and the batch is
// discarded; the journal must never stall the engine.
func (r *Recorder) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for {
		trades := drain(r.tradeCh, flushBatchSize)
		if len(trades) == 0 {
			break
		}
		for i := range trades {
			if err := r.trades.Insert(ctx, &trades[i]); err != nil && !errors.Is(err, ErrDuplicateKey) {
				r.log.Printf("insert trade %s: %v", trades[i].Signature, err)
			}
		}
	}

	for {
		drained := drain(r.tickCh, flushBatchSize)
		if len(drained) == 0 {
			break
		}
		batch := make([]*domain.PriceTick, len(drained))
		for i := range drained {
			batch[i] = &drained[i]
		}
		if err := r.ticks.InsertBulk(ctx, batch); err != nil {
			r.log.Printf("insert %d ticks: %v", len(batch), err)
		}
	}
}

func drain[T any](ch chan T, max int) []T {
	var out []T
	for len(out) < max {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
	return out
}
