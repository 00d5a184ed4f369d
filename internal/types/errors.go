package types

import "errors"

// Sentinel errors for the fill engine. Business non-events (ineligible,
// trigger not met, open-interest halt) are not errors; they come back as a
// FillEvent with status NONE. These signal configuration defects.
var (
	// Data errors
	ErrNoPriceData     = errors.New("snapshot has no price data")
	ErrInvalidSnapshot = errors.New("invalid market snapshot")

	// Instrument errors
	ErrInvalidIncrement = errors.New("minimum price increment must be positive")
	ErrUnknownSymbol    = errors.New("unknown symbol")

	// Dispatch errors
	ErrNoFillRule = errors.New("no fill rule for order type")

	// Validation errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidOrder  = errors.New("invalid order")
)
