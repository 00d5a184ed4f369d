package fill

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

// Round snaps a price to the instrument's minimum price increment, rounding
// half away from zero on price/increment.
func Round(price, increment decimal.Decimal) (decimal.Decimal, error) {
	if increment.Sign() <= 0 {
		return decimal.Zero, types.ErrInvalidIncrement
	}
	return price.Div(increment).Round(0).Mul(increment), nil
}

// RoundFillPrice finalizes a raw fill price. Buys take the rounded value;
// sells take one increment above it, so the worst-case execution always
// favors the exchange.
//
// TODO: confirm with product whether the sell offset should still apply
// when price/increment is already exact. Backtests depend on the current
// behavior, do not change it unilaterally.
func RoundFillPrice(price, increment decimal.Decimal, direction types.Direction) (decimal.Decimal, error) {
	rounded, err := Round(price, increment)
	if err != nil {
		return decimal.Zero, err
	}
	if direction == types.DirectionSell {
		rounded = rounded.Add(increment)
	}
	return rounded, nil
}
