package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

func TestRecorder_RecordFill(t *testing.T) {
	r := NewRecorder()

	order := types.Order{
		Symbol:   "REC_MES",
		Type:     types.OrderTypeMarket,
		Quantity: decimal.NewFromInt(1),
	}

	r.RecordFill(order, types.FillEvent{Status: types.FillStatusFilled})
	r.RecordFill(order, types.FillEvent{Status: types.FillStatusFilled, Message: "filled at stale price"})

	if got := testutil.ToFloat64(FillsTotal.WithLabelValues("REC_MES", "MARKET", "BUY")); got != 2 {
		t.Errorf("fills counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(StaleFillsTotal.WithLabelValues("REC_MES")); got != 1 {
		t.Errorf("stale fills counter = %v, want 1", got)
	}
}

func TestRecorder_RecordFill_NoFillReasons(t *testing.T) {
	r := NewRecorder()

	order := types.Order{
		Symbol:   "REC_MGC",
		Type:     types.OrderTypeStopMarket,
		Quantity: decimal.NewFromInt(1),
	}

	r.RecordFill(order, types.FillEvent{Status: types.FillStatusNone, Reason: types.NoFillReasonTriggerNotMet})
	r.RecordFill(order, types.FillEvent{Status: types.FillStatusNone, Reason: types.NoFillReasonOpenInterestHalt})

	if got := testutil.ToFloat64(NoFillsTotal.WithLabelValues("REC_MGC", "STOP_MARKET", "trigger_not_met")); got != 1 {
		t.Errorf("trigger_not_met counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(NoFillsTotal.WithLabelValues("REC_MGC", "STOP_MARKET", "open_interest_halt")); got != 1 {
		t.Errorf("open_interest_halt counter = %v, want 1", got)
	}

	// The halt reason also feeds the dedicated halt counter.
	if got := testutil.ToFloat64(OpenInterestHaltsTotal.WithLabelValues("REC_MGC")); got != 1 {
		t.Errorf("open interest halts counter = %v, want 1", got)
	}
}

func TestRecorder_RecordError(t *testing.T) {
	r := NewRecorder()

	r.RecordError("rec_no_price_data")
	r.RecordError("rec_no_price_data")

	if got := testutil.ToFloat64(ErrorsTotal.WithLabelValues("rec_no_price_data")); got != 2 {
		t.Errorf("errors counter = %v, want 2", got)
	}
}

func TestRecorder_RecordSnapshot(t *testing.T) {
	r := NewRecorder()

	r.RecordSnapshot(types.MarketSnapshot{
		Symbol: "REC_SNAP",
		Time:   time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
	})
	r.RecordPendingOrders("REC_SNAP", 3)

	if got := testutil.ToFloat64(SnapshotsTotal.WithLabelValues("REC_SNAP")); got != 1 {
		t.Errorf("snapshots counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(PendingOrders.WithLabelValues("REC_SNAP")); got != 3 {
		t.Errorf("pending gauge = %v, want 3", got)
	}
}

func TestRecorder_RecordEvaluationLatency(t *testing.T) {
	r := NewRecorder()
	r.RecordEvaluationLatency(50 * time.Microsecond)
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)

	elapsed := timer.Elapsed()
	if elapsed < 10*time.Millisecond {
		t.Errorf("elapsed = %v, expected >= 10ms", elapsed)
	}
}

func TestSetBuildInfo(t *testing.T) {
	r := NewRecorder()
	r.SetBuildInfo("1.0.0")

	if got := testutil.ToFloat64(BuildInfo.WithLabelValues("1.0.0")); got != 1 {
		t.Errorf("build info gauge = %v, want 1", got)
	}
}

func TestMetricsRegistered(t *testing.T) {
	metrics := []prometheus.Collector{
		FillsTotal,
		NoFillsTotal,
		StaleFillsTotal,
		OpenInterestHaltsTotal,
		ErrorsTotal,
		PendingOrders,
		SnapshotsTotal,
		EvaluationLatency,
		LastSnapshotTimestamp,
		BuildInfo,
	}

	for _, m := range metrics {
		if m == nil {
			t.Error("metric is nil")
		}
	}
}
