package fill

import (
	"github.com/tathienbao/fillsim/internal/types"
)

// MarketOnOpenFill fills at the session-open trade price once the snapshot
// falls inside the configured window before the next open. Until then the
// order stays pending; waiting is never an error.
func (m *Model) MarketOnOpenFill(sec Security, order types.Order) (types.FillEvent, error) {
	if !m.gate.IsEligible(order, sec.Snapshot, sec.Hours) {
		return pending(sec, order, types.NoFillReasonNotEligible), nil
	}

	prices, err := SamplePrices(sec, order.Direction())
	if err != nil {
		return noFill(sec, order), err
	}

	// Both sides execute at the opening trade print.
	return m.finalize(sec, order, prices.Open, prices)
}

// MarketOnCloseFill mirrors MarketOnOpenFill against the session close,
// executing at the closing trade print.
func (m *Model) MarketOnCloseFill(sec Security, order types.Order) (types.FillEvent, error) {
	if !m.gate.IsEligible(order, sec.Snapshot, sec.Hours) {
		return pending(sec, order, types.NoFillReasonNotEligible), nil
	}

	prices, err := SamplePrices(sec, order.Direction())
	if err != nil {
		return noFill(sec, order), err
	}

	return m.finalize(sec, order, prices.Close, prices)
}
