package fill

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

// LimitFill fills a limit order once the bar extremes show the limit price
// traded. The engine cannot observe the intrabar trade sequence, so it
// assumes the least favorable price consistent with the recorded high/low
// that still satisfies the trigger.
func (m *Model) LimitFill(sec Security, order types.Order) (types.FillEvent, error) {
	if !m.gate.IsEligible(order, sec.Snapshot, sec.Hours) {
		return pending(sec, order, types.NoFillReasonNotEligible), nil
	}

	prices, err := SamplePrices(sec, order.Direction())
	if err != nil {
		return noFill(sec, order), err
	}

	switch order.Direction() {
	case types.DirectionBuy:
		if prices.Low.LessThanOrEqual(order.LimitPrice) {
			raw := decimal.Min(order.LimitPrice, prices.High)
			return m.finalize(sec, order, raw, prices)
		}
	case types.DirectionSell:
		if prices.High.GreaterThanOrEqual(order.LimitPrice) {
			raw := decimal.Max(order.LimitPrice, prices.Low)
			return m.finalize(sec, order, raw, prices)
		}
	}

	return pending(sec, order, types.NoFillReasonTriggerNotMet), nil
}
