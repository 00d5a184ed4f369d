// Package fill implements the deterministic order fill simulation engine.
//
// Every evaluation is a pure computation over the inputs supplied by the
// caller: the engine holds no state between calls, performs no I/O and never
// mutates the order. Business non-events (ineligible, trigger not met,
// open-interest halt) come back as a NONE fill event; only configuration
// defects surface as errors.
package fill

import (
	"time"

	"github.com/tathienbao/fillsim/internal/hours"
	"github.com/tathienbao/fillsim/internal/subscription"
	"github.com/tathienbao/fillsim/internal/types"
)

// Security bundles the point-in-time state an evaluation needs: the latest
// market snapshot plus the read-only collaborators for the instrument.
// The caller constructs it fresh for each call; the engine never reaches
// into external mutable state.
type Security struct {
	Symbol        string
	Spec          types.InstrumentSpec
	Hours         hours.ExchangeHours
	Subscriptions subscription.Provider
	Snapshot      types.MarketSnapshot
	Time          time.Time // evaluation clock, used for staleness only
}
