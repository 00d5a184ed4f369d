package fill

import (
	"github.com/tathienbao/fillsim/internal/types"
)

// MarketFill fills a market order immediately at the side-relevant price:
// buys lift the ask, sells hit the bid, collapsing to the bar close or last
// trade when no quote data is subscribed.
func (m *Model) MarketFill(sec Security, order types.Order) (types.FillEvent, error) {
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

	return m.finalize(sec, order, prices.Current, prices)
}
