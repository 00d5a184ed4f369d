package fill

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

// Config holds the tunable parameters of the fill model.
type Config struct {
	// OpenWindow and CloseWindow bound when on-open/on-close orders become
	// eligible relative to the next session boundary.
	OpenWindow  time.Duration
	CloseWindow time.Duration

	// StalenessThreshold is the data age beyond which a fill is annotated
	// with a stale-price warning.
	StalenessThreshold time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		OpenWindow:         time.Hour,
		CloseWindow:        time.Hour,
		StalenessThreshold: time.Hour,
	}
}

// Model dispatches orders to their fill rules and assembles fill events.
// It is safe to share across goroutines: all evaluation state is passed in
// per call.
type Model struct {
	gate     Gate
	detector Detector
	logger   *slog.Logger
}

// NewModel creates a fill model.
func NewModel(cfg Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		gate:     Gate{OpenWindow: cfg.OpenWindow, CloseWindow: cfg.CloseWindow},
		detector: Detector{Threshold: cfg.StalenessThreshold},
		logger:   logger,
	}
}

// Fill evaluates an order against the security state and returns the fill
// outcome. Dispatch over the order type is exhaustive; an order type without
// a rule is a configuration defect, not a NoFill.
func (m *Model) Fill(sec Security, order types.Order) (types.FillEvent, error) {
	if sec.Spec.TickSize.Sign() <= 0 {
		return noFill(sec, order), fmt.Errorf("%s: %w", sec.Symbol, types.ErrInvalidIncrement)
	}

	switch order.Type {
	case types.OrderTypeMarket:
		return m.MarketFill(sec, order)
	case types.OrderTypeLimit:
		return m.LimitFill(sec, order)
	case types.OrderTypeStopMarket:
		return m.StopMarketFill(sec, order)
	case types.OrderTypeStopLimit:
		return m.StopLimitFill(sec, order)
	case types.OrderTypeMarketOnOpen:
		return m.MarketOnOpenFill(sec, order)
	case types.OrderTypeMarketOnClose:
		return m.MarketOnCloseFill(sec, order)
	default:
		return noFill(sec, order), fmt.Errorf("%s: %w", order.Type, types.ErrNoFillRule)
	}
}

// finalize rounds the raw price, attaches the staleness warning if any and
// stamps the event as filled for the order's full outstanding quantity.
func (m *Model) finalize(sec Security, order types.Order, raw decimal.Decimal, prices Prices) (types.FillEvent, error) {
	fill := noFill(sec, order)

	price, err := RoundFillPrice(raw, sec.Spec.TickSize, order.Direction())
	if err != nil {
		return fill, fmt.Errorf("%s: %w", sec.Symbol, err)
	}

	fill.Status = types.FillStatusFilled
	fill.Quantity = order.Outstanding()
	fill.Price = price

	if msg, stale := m.detector.Check(prices.EndTime, evalTime(sec)); stale {
		fill.Message = msg
		m.logger.Warn("stale fill", "symbol", sec.Symbol, "order_id", order.ID, "data_time", prices.EndTime)
	}

	return fill, nil
}

// pending builds the NONE outcome annotated with why the order did not fill.
func pending(sec Security, order types.Order, reason types.NoFillReason) types.FillEvent {
	fill := noFill(sec, order)
	fill.Reason = reason
	return fill
}

// noFill builds the zero-quantity, zero-price outcome for a pending order.
func noFill(sec Security, order types.Order) types.FillEvent {
	return types.FillEvent{
		ID:       uuid.New().String(),
		OrderID:  order.ID,
		Symbol:   order.Symbol,
		Time:     evalTime(sec),
		Status:   types.FillStatusNone,
		Quantity: decimal.Zero,
		Price:    decimal.Zero,
		Fee:      decimal.Zero,
	}
}

// evalTime is the evaluation clock, falling back to the snapshot time when
// the caller did not supply one.
func evalTime(sec Security) time.Time {
	if sec.Time.IsZero() {
		return sec.Snapshot.Time
	}
	return sec.Time
}

// haltedByOpenInterest models reduced liquidity near contract rollover:
// derivatives whose latest update reports non-zero open interest refuse
// stop fills regardless of the price trigger.
func haltedByOpenInterest(sec Security) bool {
	if !sec.Spec.HasOpenInterest {
		return false
	}
	return sec.Snapshot.Tick != nil && sec.Snapshot.Tick.OpenInterest.Sign() != 0
}
