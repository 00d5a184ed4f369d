// Package types defines shared types used across the fill simulation engine.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction represents the direction of an order.
type Direction int

const (
	DirectionFlat Direction = iota
	DirectionBuy
	DirectionSell
)

func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "BUY"
	case DirectionSell:
		return "SELL"
	default:
		return "FLAT"
	}
}

// OrderType identifies which fill rule applies to an order.
type OrderType int

const (
	OrderTypeMarket OrderType = iota
	OrderTypeLimit
	OrderTypeStopMarket
	OrderTypeStopLimit
	OrderTypeMarketOnOpen
	OrderTypeMarketOnClose
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeMarket:
		return "MARKET"
	case OrderTypeLimit:
		return "LIMIT"
	case OrderTypeStopMarket:
		return "STOP_MARKET"
	case OrderTypeStopLimit:
		return "STOP_LIMIT"
	case OrderTypeMarketOnOpen:
		return "MARKET_ON_OPEN"
	case OrderTypeMarketOnClose:
		return "MARKET_ON_CLOSE"
	default:
		return "UNKNOWN"
	}
}

// ParseOrderType parses a string order type as found in order files.
func ParseOrderType(s string) (OrderType, bool) {
	switch s {
	case "market", "MARKET":
		return OrderTypeMarket, true
	case "limit", "LIMIT":
		return OrderTypeLimit, true
	case "stop_market", "STOP_MARKET":
		return OrderTypeStopMarket, true
	case "stop_limit", "STOP_LIMIT":
		return OrderTypeStopLimit, true
	case "market_on_open", "MARKET_ON_OPEN":
		return OrderTypeMarketOnOpen, true
	case "market_on_close", "MARKET_ON_CLOSE":
		return OrderTypeMarketOnClose, true
	default:
		return OrderTypeMarket, false
	}
}

// Order is an immutable order intent. Quantity is signed: positive for buys,
// negative for sells. LimitPrice and StopPrice are meaningful only for the
// order types that carry them. Remaining is bookkeeping owned by the caller;
// the engine reads it but never writes it.
type Order struct {
	ID          string
	Symbol      string
	Type        OrderType
	Quantity    decimal.Decimal
	LimitPrice  decimal.Decimal
	StopPrice   decimal.Decimal
	SubmittedAt time.Time
	Remaining   decimal.Decimal
}

// Direction derives the order direction from the sign of the quantity.
func (o Order) Direction() Direction {
	switch o.Quantity.Sign() {
	case 1:
		return DirectionBuy
	case -1:
		return DirectionSell
	default:
		return DirectionFlat
	}
}

// Outstanding returns the unfilled quantity, falling back to the full
// quantity when the caller has not tracked Remaining.
func (o Order) Outstanding() decimal.Decimal {
	if o.Remaining.IsZero() {
		return o.Quantity
	}
	return o.Remaining
}

// FillStatus represents the outcome of a single fill evaluation.
type FillStatus int

const (
	FillStatusNone FillStatus = iota
	FillStatusFilled
)

func (s FillStatus) String() string {
	switch s {
	case FillStatusFilled:
		return "FILLED"
	default:
		return "NONE"
	}
}

// NoFillReason classifies why an evaluation left the order pending.
type NoFillReason int

const (
	NoFillReasonNone NoFillReason = iota
	NoFillReasonNotEligible
	NoFillReasonExchangeClosed
	NoFillReasonOpenInterestHalt
	NoFillReasonTriggerNotMet
)

func (r NoFillReason) String() string {
	switch r {
	case NoFillReasonNotEligible:
		return "not_eligible"
	case NoFillReasonExchangeClosed:
		return "exchange_closed"
	case NoFillReasonOpenInterestHalt:
		return "open_interest_halt"
	case NoFillReasonTriggerNotMet:
		return "trigger_not_met"
	default:
		return "none"
	}
}

// FillEvent is the result of evaluating an order against a snapshot.
// Quantity carries the order's sign. Fee is a placeholder for an external
// fee model and is always zero here. Reason is set on NONE outcomes only.
type FillEvent struct {
	ID       string
	OrderID  string
	Symbol   string
	Time     time.Time
	Status   FillStatus
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Fee      decimal.Decimal
	Message  string
	Reason   NoFillReason
}

// Tick is a single point-in-time quote or trade update.
type Tick struct {
	Time         time.Time
	LastPrice    decimal.Decimal
	BidPrice     decimal.Decimal
	AskPrice     decimal.Decimal
	BidSize      decimal.Decimal
	AskSize      decimal.Decimal
	OpenInterest decimal.Decimal
}

// Bar is an aggregated open/high/low/close record over a fixed period.
type Bar struct {
	Time   time.Time
	Period time.Duration
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
}

// EndTime returns the end of the aggregation period.
func (b Bar) EndTime() time.Time {
	return b.Time.Add(b.Period)
}

// TradeBar is a trade-aggregated bar with volume.
type TradeBar struct {
	Bar
	Volume int64
}

// QuoteBar carries separate bid and ask bars over the same period.
type QuoteBar struct {
	Time   time.Time
	Period time.Duration
	Bid    Bar
	Ask    Bar
}

// EndTime returns the end of the aggregation period.
func (q QuoteBar) EndTime() time.Time {
	return q.Time.Add(q.Period)
}

// MarketSnapshot is the latest known market data for a symbol. Multiple
// representations may coexist depending on active subscriptions; absent
// representations are nil. The engine only ever reads the snapshot passed
// to it and holds no history of its own.
type MarketSnapshot struct {
	Symbol   string
	Time     time.Time
	Tick     *Tick
	QuoteBar *QuoteBar
	TradeBar *TradeBar
}

// Empty reports whether the snapshot carries no data representation at all.
func (s MarketSnapshot) Empty() bool {
	return s.Tick == nil && s.QuoteBar == nil && s.TradeBar == nil
}

// InstrumentSpec defines the read-only properties of a tradeable instrument.
type InstrumentSpec struct {
	Symbol          string
	TickSize        decimal.Decimal // minimum price increment
	Multiplier      decimal.Decimal // contract multiplier
	QuoteCurrency   string
	HasOpenInterest bool // derivatives carry the open-interest halt gate
}

// Common instrument specifications.
var (
	InstrumentMES = InstrumentSpec{
		Symbol:          "MES",
		TickSize:        decimal.RequireFromString("0.25"),
		Multiplier:      decimal.RequireFromString("5"),
		QuoteCurrency:   "USD",
		HasOpenInterest: true,
	}

	InstrumentMGC = InstrumentSpec{
		Symbol:          "MGC",
		TickSize:        decimal.RequireFromString("0.10"),
		Multiplier:      decimal.RequireFromString("10"),
		QuoteCurrency:   "USD",
		HasOpenInterest: true,
	}
)

// GetInstrumentSpec returns the built-in specification for a symbol.
func GetInstrumentSpec(symbol string) (InstrumentSpec, bool) {
	switch symbol {
	case "MES":
		return InstrumentMES, true
	case "MGC":
		return InstrumentMGC, true
	default:
		return InstrumentSpec{}, false
	}
}
