package metrics

import (
	"time"

	"github.com/tathienbao/fillsim/internal/types"
)

// Recorder provides methods for recording fill engine metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordFill records the outcome of a fill evaluation. NONE outcomes are
// counted by the reason the engine annotated them with.
func (r *Recorder) RecordFill(order types.Order, event types.FillEvent) {
	if event.Status == types.FillStatusFilled {
		FillsTotal.WithLabelValues(order.Symbol, order.Type.String(), order.Direction().String()).Inc()
		if event.Message != "" {
			StaleFillsTotal.WithLabelValues(order.Symbol).Inc()
		}
		return
	}
	NoFillsTotal.WithLabelValues(order.Symbol, order.Type.String(), event.Reason.String()).Inc()
	if event.Reason == types.NoFillReasonOpenInterestHalt {
		r.RecordOpenInterestHalt(order.Symbol)
	}
}

// RecordOpenInterestHalt records a stop evaluation blocked by open interest.
func (r *Recorder) RecordOpenInterestHalt(symbol string) {
	OpenInterestHaltsTotal.WithLabelValues(symbol).Inc()
}

// RecordError records an evaluation error.
func (r *Recorder) RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordSnapshot records a processed market snapshot.
func (r *Recorder) RecordSnapshot(snap types.MarketSnapshot) {
	SnapshotsTotal.WithLabelValues(snap.Symbol).Inc()
	LastSnapshotTimestamp.Set(float64(snap.Time.Unix()))
}

// RecordPendingOrders records the current pending order count for a symbol.
func (r *Recorder) RecordPendingOrders(symbol string, count int) {
	PendingOrders.WithLabelValues(symbol).Set(float64(count))
}

// RecordEvaluationLatency records fill evaluation latency.
func (r *Recorder) RecordEvaluationLatency(duration time.Duration) {
	EvaluationLatency.Observe(duration.Seconds())
}

// SetBuildInfo sets the build info gauge.
func (r *Recorder) SetBuildInfo(version string) {
	BuildInfo.WithLabelValues(version).Set(1)
}

// Timer is a helper for measuring latency.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed duration.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
