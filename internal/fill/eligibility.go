package fill

import (
	"time"

	"github.com/tathienbao/fillsim/internal/hours"
	"github.com/tathienbao/fillsim/internal/types"
)

// Gate decides whether an order may be evaluated against a snapshot.
// Ineligibility is a normal pending condition, never an error.
type Gate struct {
	// OpenWindow is how soon before the next session open an on-open order
	// becomes eligible. CloseWindow mirrors it for on-close orders.
	OpenWindow  time.Duration
	CloseWindow time.Duration
}

// IsEligible reports whether the snapshot may be used to decide the order.
//
// A snapshot timestamped at or before the order's submission carries no
// post-submission information and is always rejected. Session-bound types
// additionally wait until the snapshot falls inside the configured window
// before the relevant session boundary.
func (g Gate) IsEligible(order types.Order, snap types.MarketSnapshot, hrs hours.ExchangeHours) bool {
	if !snap.Time.After(order.SubmittedAt) {
		return false
	}

	switch order.Type {
	case types.OrderTypeMarketOnOpen:
		return hrs.NextOpen(snap.Time).Sub(snap.Time) <= g.OpenWindow
	case types.OrderTypeMarketOnClose:
		return hrs.NextClose(snap.Time).Sub(snap.Time) <= g.CloseWindow
	}

	return true
}
