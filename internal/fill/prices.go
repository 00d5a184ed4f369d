package fill

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/subscription"
	"github.com/tathienbao/fillsim/internal/types"
)

// Prices bundles the reference prices extracted from a snapshot for one
// side of the market. For point-in-time representations (ticks) the bar
// fields collapse to the current price.
type Prices struct {
	EndTime time.Time
	Current decimal.Decimal
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
}

func newPrices(endTime time.Time, current, open, high, low, close decimal.Decimal) Prices {
	if open.IsZero() {
		open = current
	}
	if high.IsZero() {
		high = current
	}
	if low.IsZero() {
		low = current
	}
	if close.IsZero() {
		close = current
	}
	return Prices{EndTime: endTime, Current: current, Open: open, High: high, Low: low, Close: close}
}

// SamplePrices extracts the relevant reference prices from the snapshot for
// the given order direction. Selection priority when multiple representations
// are present: tick quote > quote bar > trade bar > tick last trade. A
// representation is only considered when the subscription provider lists it
// for the symbol. With no tick or quote data the trade bar's prices serve
// both sides and the spread collapses to zero.
func SamplePrices(sec Security, direction types.Direction) (Prices, error) {
	snap := sec.Snapshot
	if snap.Empty() {
		return Prices{}, fmt.Errorf("%s: %w", sec.Symbol, types.ErrNoPriceData)
	}

	if snap.Tick != nil && subscription.Has(sec.Subscriptions, sec.Symbol, subscription.DataTypeTick) {
		quote := tickQuote(snap.Tick, direction)
		if quote.Sign() > 0 {
			return newPrices(snap.Tick.Time, quote, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero), nil
		}
	}

	if snap.QuoteBar != nil && subscription.Has(sec.Subscriptions, sec.Symbol, subscription.DataTypeQuoteBar) {
		bar := snap.QuoteBar.Bid
		if direction == types.DirectionBuy {
			bar = snap.QuoteBar.Ask
		}
		if bar.Close.Sign() > 0 {
			return newPrices(snap.QuoteBar.EndTime(), bar.Close, bar.Open, bar.High, bar.Low, bar.Close), nil
		}
	}

	if snap.TradeBar != nil && subscription.Has(sec.Subscriptions, sec.Symbol, subscription.DataTypeTradeBar) {
		tb := snap.TradeBar
		return newPrices(tb.EndTime(), tb.Close, tb.Open, tb.High, tb.Low, tb.Close), nil
	}

	// Tick-only fallback: no usable bid/ask and no bar subscription, the
	// last trade price serves both sides.
	if snap.Tick != nil && snap.Tick.LastPrice.Sign() > 0 {
		return newPrices(snap.Tick.Time, snap.Tick.LastPrice, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero), nil
	}

	return Prices{}, fmt.Errorf("%s: %w", sec.Symbol, types.ErrNoPriceData)
}

// tickQuote picks the side-relevant quote from a tick. Buys lift the ask,
// sells hit the bid.
func tickQuote(tick *types.Tick, direction types.Direction) decimal.Decimal {
	switch direction {
	case types.DirectionBuy:
		return tick.AskPrice
	case types.DirectionSell:
		return tick.BidPrice
	default:
		return tick.LastPrice
	}
}
