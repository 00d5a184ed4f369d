// Package metrics exposes Prometheus metrics for the fill engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FillsTotal counts filled orders by symbol, order type and direction.
	FillsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fillsim_fills_total",
		Help: "Total number of filled orders",
	}, []string{"symbol", "order_type", "direction"})

	// NoFillsTotal counts evaluations that left the order pending, by reason.
	NoFillsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fillsim_no_fills_total",
		Help: "Total number of evaluations that did not fill",
	}, []string{"symbol", "order_type", "reason"})

	// StaleFillsTotal counts fills executed against stale market data.
	StaleFillsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fillsim_stale_fills_total",
		Help: "Total number of fills against stale market data",
	}, []string{"symbol"})

	// OpenInterestHaltsTotal counts stop evaluations blocked by open interest.
	OpenInterestHaltsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fillsim_open_interest_halts_total",
		Help: "Total number of stop order evaluations halted by open interest data",
	}, []string{"symbol"})

	// ErrorsTotal counts evaluation errors by type.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fillsim_errors_total",
		Help: "Total number of evaluation errors",
	}, []string{"error_type"})

	// PendingOrders tracks currently pending orders per symbol.
	PendingOrders = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fillsim_pending_orders",
		Help: "Number of currently pending orders",
	}, []string{"symbol"})

	// SnapshotsTotal counts market snapshots processed.
	SnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fillsim_snapshots_total",
		Help: "Total number of market snapshots processed",
	}, []string{"symbol"})

	// EvaluationLatency observes fill evaluation latency in seconds.
	EvaluationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fillsim_evaluation_latency_seconds",
		Help:    "Fill evaluation latency in seconds",
		Buckets: []float64{.000001, .00001, .0001, .001, .01, .1},
	})

	// LastSnapshotTimestamp is the Unix time of the last processed snapshot.
	LastSnapshotTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fillsim_last_snapshot_timestamp_seconds",
		Help: "Unix timestamp of the last processed market snapshot",
	})

	// BuildInfo carries version information as a constant gauge.
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fillsim_build_info",
		Help: "Build information",
	}, []string{"version"})
)
