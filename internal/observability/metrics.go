// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scan metrics
	EntriesProcessed    prometheus.Counter
	InstructionsScanned prometheus.Counter
	DecodeErrors        prometheus.Counter
	TokensLaunched      prometheus.Counter
	TrackedTokens       prometheus.Gauge

	// Snipe metrics
	SnipesEvaluated prometheus.Counter
	SnipesExecuted  prometheus.Counter
	SnipeLatency    prometheus.Histogram

	// Exit metrics
	SellsReleased   prometheus.Counter
	SellsFailed     prometheus.Counter
	PendingSells    prometheus.Gauge

	// Transport metrics
	StreamReconnects   prometheus.Counter
	BlockhashRefreshes prometheus.Counter

	// Journal metrics
	RecordsDropped *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "snipe_engine"
	}

	return &Metrics{
		// Scan metrics
		EntriesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "entries_processed_total",
			Help:      "Total number of entry batches processed",
		}),
		InstructionsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "instructions_scanned_total",
			Help:      "Total number of program instructions inspected",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "decode_errors_total",
			Help:      "Total number of instruction payloads that failed to decode",
		}),
		TokensLaunched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "tokens_launched_total",
			Help:      "Total number of token launches observed",
		}),
		TrackedTokens: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "tracked_tokens",
			Help:      "Number of tokens with live reserve state",
		}),

		// Snipe metrics
		SnipesEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snipe",
			Name:      "evaluated_total",
			Help:      "Total number of observed buys evaluated for entry",
		}),
		SnipesExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snipe",
			Name:      "executed_total",
			Help:      "Total number of entry transactions submitted",
		}),
		SnipeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snipe",
			Name:      "latency_seconds",
			Help:      "Latency from buy observation to entry submission",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		// Exit metrics
		SellsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exit",
			Name:      "sells_released_total",
			Help:      "Total number of scheduled sells released",
		}),
		SellsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "exit",
			Name:      "sells_failed_total",
			Help:      "Total number of sell submissions that failed",
		}),
		PendingSells: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "exit",
			Name:      "pending_sells",
			Help:      "Number of sells waiting in the schedule",
		}),

		// Transport metrics
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of entry stream reconnects",
		}),
		BlockhashRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "blockhash_refreshes_total",
			Help:      "Total number of blockhash cache refreshes",
		}),

		// Journal metrics
		RecordsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "records_dropped_total",
			Help:      "Total number of journal records dropped by type",
		}, []string{"record_type"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
