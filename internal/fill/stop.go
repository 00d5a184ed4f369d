package fill

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

// StopMarketFill fills a stop order at the side-relevant market price once
// the bar extremes show the stop level traded through. The open-interest
// halt is checked before any price sampling.
func (m *Model) StopMarketFill(sec Security, order types.Order) (types.FillEvent, error) {
	if haltedByOpenInterest(sec) {
		return pending(sec, order, types.NoFillReasonOpenInterestHalt), nil
	}
	if !m.gate.IsEligible(order, sec.Snapshot, sec.Hours) {
		return pending(sec, order, types.NoFillReasonNotEligible), nil
	}
	if !sec.Hours.IsOpenAt(sec.Snapshot.Time) {
		return pending(sec, order, types.NoFillReasonExchangeClosed), nil
	}

	prices, err := SamplePrices(sec, order.Direction())
	if err != nil {
		return noFill(sec, order), err
	}

	switch order.Direction() {
	case types.DirectionBuy:
		if prices.High.GreaterThanOrEqual(order.StopPrice) {
			return m.finalize(sec, order, prices.Current, prices)
		}
	case types.DirectionSell:
		if prices.Low.LessThanOrEqual(order.StopPrice) {
			return m.finalize(sec, order, prices.Current, prices)
		}
	}

	return pending(sec, order, types.NoFillReasonTriggerNotMet), nil
}

// StopLimitFill fills when the stop level has traded through and the same
// bar can also satisfy the limit condition. Both conditions are evaluated
// against the current bar on every call; the engine latches no trigger
// state between evaluations.
func (m *Model) StopLimitFill(sec Security, order types.Order) (types.FillEvent, error) {
	if haltedByOpenInterest(sec) {
		return pending(sec, order, types.NoFillReasonOpenInterestHalt), nil
	}
	if !m.gate.IsEligible(order, sec.Snapshot, sec.Hours) {
		return pending(sec, order, types.NoFillReasonNotEligible), nil
	}

	prices, err := SamplePrices(sec, order.Direction())
	if err != nil {
		return noFill(sec, order), err
	}

	switch order.Direction() {
	case types.DirectionBuy:
		if prices.High.GreaterThanOrEqual(order.StopPrice) && prices.Low.LessThanOrEqual(order.LimitPrice) {
			raw := decimal.Min(order.LimitPrice, prices.High)
			return m.finalize(sec, order, raw, prices)
		}
	case types.DirectionSell:
		if prices.Low.LessThanOrEqual(order.StopPrice) && prices.High.GreaterThanOrEqual(order.LimitPrice) {
			raw := decimal.Max(order.LimitPrice, prices.Low)
			return m.finalize(sec, order, raw, prices)
		}
	}

	return pending(sec, order, types.NoFillReasonTriggerNotMet), nil
}
