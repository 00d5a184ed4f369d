// Package feed supplies market snapshots for replay and testing.
package feed

import (
	"context"

	"github.com/tathienbao/fillsim/internal/types"
)

// SnapshotFeed defines the interface for market snapshot sources.
// Implementations can be historical replays or live adapters.
type SnapshotFeed interface {
	// Subscribe starts receiving snapshots for a symbol.
	// Returns a channel that is closed when the context is cancelled or
	// the feed ends.
	Subscribe(ctx context.Context, symbol string) (<-chan types.MarketSnapshot, error)

	// Close shuts down the feed and releases resources.
	Close() error

	// Name returns the feed identifier (e.g., "csv", "memory").
	Name() string
}
