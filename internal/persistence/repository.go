// Package persistence provides durable storage for orders and fill events.
package persistence

import (
	"context"

	"github.com/tathienbao/fillsim/internal/types"
)

// Repository defines the interface for the fill journal.
type Repository interface {
	// Order operations
	SaveOrder(ctx context.Context, order types.Order) error
	GetPendingOrders(ctx context.Context) ([]types.Order, error)
	MarkOrderFilled(ctx context.Context, orderID string) error

	// Fill operations
	SaveFill(ctx context.Context, event types.FillEvent) error
	GetFills(ctx context.Context, symbol string, limit int) ([]types.FillEvent, error)
	GetFillsByOrder(ctx context.Context, orderID string) ([]types.FillEvent, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
