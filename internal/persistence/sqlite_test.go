package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("NewSQLiteRepository failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func testOrder(symbol string) types.Order {
	return types.Order{
		ID:          uuid.New().String(),
		Symbol:      symbol,
		Type:        types.OrderTypeLimit,
		Quantity:    decimal.NewFromInt(2),
		LimitPrice:  decimal.RequireFromString("101.50"),
		SubmittedAt: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteRepository_SaveAndGetPendingOrders(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := testOrder("MES")
	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder failed: %v", err)
	}

	pending, err := repo.GetPendingOrders(ctx)
	if err != nil {
		t.Fatalf("GetPendingOrders failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending orders = %d, want 1", len(pending))
	}

	got := pending[0]
	if got.ID != order.ID {
		t.Errorf("ID = %s, want %s", got.ID, order.ID)
	}
	if got.Type != types.OrderTypeLimit {
		t.Errorf("Type = %v, want limit", got.Type)
	}
	if !got.Quantity.Equal(order.Quantity) {
		t.Errorf("Quantity = %s, want %s", got.Quantity, order.Quantity)
	}
	if !got.LimitPrice.Equal(order.LimitPrice) {
		t.Errorf("LimitPrice = %s, want %s", got.LimitPrice, order.LimitPrice)
	}
	if !got.SubmittedAt.Equal(order.SubmittedAt) {
		t.Errorf("SubmittedAt = %v, want %v", got.SubmittedAt, order.SubmittedAt)
	}
}

func TestSQLiteRepository_Ping(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSQLiteRepository_MarkOrderFilled(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	order := testOrder("MES")
	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder failed: %v", err)
	}

	if err := repo.MarkOrderFilled(ctx, order.ID); err != nil {
		t.Fatalf("MarkOrderFilled failed: %v", err)
	}

	pending, err := repo.GetPendingOrders(ctx)
	if err != nil {
		t.Fatalf("GetPendingOrders failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending orders = %d, want 0 after fill", len(pending))
	}
}

func TestSQLiteRepository_SaveAndGetFills(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	orderID := uuid.New().String()
	base := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		event := types.FillEvent{
			ID:       uuid.New().String(),
			OrderID:  orderID,
			Symbol:   "MES",
			Time:     base.Add(time.Duration(i) * time.Minute),
			Status:   types.FillStatusFilled,
			Quantity: decimal.NewFromInt(1),
			Price:    decimal.RequireFromString("101.25"),
			Fee:      decimal.Zero,
			Message:  "",
		}
		if err := repo.SaveFill(ctx, event); err != nil {
			t.Fatalf("SaveFill failed: %v", err)
		}
	}

	fills, err := repo.GetFills(ctx, "MES", 10)
	if err != nil {
		t.Fatalf("GetFills failed: %v", err)
	}
	if len(fills) != 3 {
		t.Fatalf("fills = %d, want 3", len(fills))
	}

	// Most recent first.
	if !fills[0].Time.After(fills[1].Time) {
		t.Error("GetFills should return most recent first")
	}
	if !fills[0].Price.Equal(decimal.RequireFromString("101.25")) {
		t.Errorf("Price = %s, want 101.25", fills[0].Price)
	}

	byOrder, err := repo.GetFillsByOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("GetFillsByOrder failed: %v", err)
	}
	if len(byOrder) != 3 {
		t.Fatalf("fills by order = %d, want 3", len(byOrder))
	}
	// Time order for the per-order journal.
	if !byOrder[0].Time.Before(byOrder[1].Time) {
		t.Error("GetFillsByOrder should return oldest first")
	}
}

func TestSQLiteRepository_GetFills_Limit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		event := types.FillEvent{
			ID:       uuid.New().String(),
			OrderID:  uuid.New().String(),
			Symbol:   "MES",
			Time:     base.Add(time.Duration(i) * time.Minute),
			Status:   types.FillStatusFilled,
			Quantity: decimal.NewFromInt(1),
			Price:    decimal.NewFromInt(101),
			Fee:      decimal.Zero,
		}
		if err := repo.SaveFill(ctx, event); err != nil {
			t.Fatalf("SaveFill failed: %v", err)
		}
	}

	fills, err := repo.GetFills(ctx, "MES", 2)
	if err != nil {
		t.Fatalf("GetFills failed: %v", err)
	}
	if len(fills) != 2 {
		t.Errorf("fills = %d, want 2 with limit", len(fills))
	}
}

func TestSQLiteRepository_StaleMessagePersisted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	event := types.FillEvent{
		ID:       uuid.New().String(),
		OrderID:  uuid.New().String(),
		Symbol:   "MGC",
		Time:     time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
		Status:   types.FillStatusFilled,
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.RequireFromString("2150.10"),
		Fee:      decimal.Zero,
		Message:  "filled at stale price: market data is 2h0m0s old, threshold 1h0m0s",
	}
	if err := repo.SaveFill(ctx, event); err != nil {
		t.Fatalf("SaveFill failed: %v", err)
	}

	fills, err := repo.GetFillsByOrder(ctx, event.OrderID)
	if err != nil {
		t.Fatalf("GetFillsByOrder failed: %v", err)
	}
	if len(fills) != 1 {
		t.Fatalf("fills = %d, want 1", len(fills))
	}
	if fills[0].Message != event.Message {
		t.Errorf("Message = %q, want %q", fills[0].Message, event.Message)
	}
}
