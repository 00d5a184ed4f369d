// Package subscription enumerates the market data representations that are
// active for each symbol.
package subscription

// DataType identifies a market data representation.
type DataType int

const (
	DataTypeTradeBar DataType = iota
	DataTypeQuoteBar
	DataTypeTick
	DataTypeOpenInterest
)

func (t DataType) String() string {
	switch t {
	case DataTypeTradeBar:
		return "trade_bar"
	case DataTypeQuoteBar:
		return "quote_bar"
	case DataTypeTick:
		return "tick"
	case DataTypeOpenInterest:
		return "open_interest"
	default:
		return "unknown"
	}
}

// ParseDataType parses a data type name as found in configuration files.
func ParseDataType(s string) (DataType, bool) {
	switch s {
	case "trade_bar":
		return DataTypeTradeBar, true
	case "quote_bar":
		return DataTypeQuoteBar, true
	case "tick":
		return DataTypeTick, true
	case "open_interest":
		return DataTypeOpenInterest, true
	default:
		return DataTypeTradeBar, false
	}
}

// Provider enumerates the active data representations for a symbol.
// Production configuration and test doubles share this contract.
type Provider interface {
	Subscriptions(symbol string) []DataType
}

// Has reports whether the provider lists dt for symbol. A nil provider is
// treated as subscribed-to-everything so callers can opt out of filtering.
func Has(p Provider, symbol string, dt DataType) bool {
	if p == nil {
		return true
	}
	for _, t := range p.Subscriptions(symbol) {
		if t == dt {
			return true
		}
	}
	return false
}

// Static is a map-backed Provider. It is populated once during setup and
// read-only afterwards; it is not safe for concurrent mutation.
type Static struct {
	subs map[string][]DataType
}

// NewStatic creates an empty static provider.
func NewStatic() *Static {
	return &Static{subs: make(map[string][]DataType)}
}

// Add registers data types for a symbol, ignoring duplicates.
func (s *Static) Add(symbol string, types ...DataType) {
	for _, dt := range types {
		if !Has(s, symbol, dt) {
			s.subs[symbol] = append(s.subs[symbol], dt)
		}
	}
}

// Subscriptions returns the active data types for a symbol.
func (s *Static) Subscriptions(symbol string) []DataType {
	return s.subs[symbol]
}
