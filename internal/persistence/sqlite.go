package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{db: db}

	// Run migrations
	if err := repo.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return repo, nil
}

// Migrate runs database migrations.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			order_type TEXT NOT NULL,
			quantity TEXT NOT NULL,
			limit_price TEXT,
			stop_price TEXT,
			submitted_at DATETIME NOT NULL,
			remaining TEXT,
			filled INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_symbol ON orders(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_filled ON orders(filled)`,

		`CREATE TABLE IF NOT EXISTS fill_events (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			time DATETIME NOT NULL,
			status INTEGER NOT NULL,
			quantity TEXT NOT NULL,
			price TEXT NOT NULL,
			fee TEXT NOT NULL DEFAULT '0',
			message TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fill_events_order_id ON fill_events(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fill_events_symbol ON fill_events(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_fill_events_time ON fill_events(time)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// SaveOrder saves an order.
func (r *SQLiteRepository) SaveOrder(ctx context.Context, order types.Order) error {
	query := `INSERT OR REPLACE INTO orders
		(id, symbol, order_type, quantity, limit_price, stop_price, submitted_at, remaining, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.Symbol,
		order.Type.String(),
		order.Quantity.String(),
		order.LimitPrice.String(),
		order.StopPrice.String(),
		order.SubmittedAt.UTC(),
		order.Remaining.String(),
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

// GetPendingOrders returns orders that have not yet filled.
func (r *SQLiteRepository) GetPendingOrders(ctx context.Context) ([]types.Order, error) {
	query := `SELECT id, symbol, order_type, quantity, limit_price, stop_price, submitted_at, remaining
		FROM orders WHERE filled = 0 ORDER BY submitted_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []types.Order
	for rows.Next() {
		var o types.Order
		var orderType, quantity string
		var limitPrice, stopPrice, remaining sql.NullString

		if err := rows.Scan(&o.ID, &o.Symbol, &orderType, &quantity, &limitPrice, &stopPrice, &o.SubmittedAt, &remaining); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if t, ok := types.ParseOrderType(orderType); ok {
			o.Type = t
		}
		o.Quantity, _ = decimal.NewFromString(quantity)
		if limitPrice.Valid {
			o.LimitPrice, _ = decimal.NewFromString(limitPrice.String)
		}
		if stopPrice.Valid {
			o.StopPrice, _ = decimal.NewFromString(stopPrice.String)
		}
		if remaining.Valid {
			o.Remaining, _ = decimal.NewFromString(remaining.String)
		}
		o.SubmittedAt = o.SubmittedAt.UTC()

		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// MarkOrderFilled marks an order as filled.
func (r *SQLiteRepository) MarkOrderFilled(ctx context.Context, orderID string) error {
	query := `UPDATE orders SET filled = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("mark order filled: %w", err)
	}

	return nil
}

// SaveFill saves a fill event.
func (r *SQLiteRepository) SaveFill(ctx context.Context, event types.FillEvent) error {
	query := `INSERT INTO fill_events
		(id, order_id, symbol, time, status, quantity, price, fee, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.OrderID,
		event.Symbol,
		event.Time.UTC(),
		int(event.Status),
		event.Quantity.String(),
		event.Price.String(),
		event.Fee.String(),
		event.Message,
	)
	if err != nil {
		return fmt.Errorf("insert fill event: %w", err)
	}

	return nil
}

// GetFills returns fill events for a symbol, most recent first.
func (r *SQLiteRepository) GetFills(ctx context.Context, symbol string, limit int) ([]types.FillEvent, error) {
	query := `SELECT id, order_id, symbol, time, status, quantity, price, fee, message
		FROM fill_events WHERE symbol = ? ORDER BY time DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query fills: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanFills(rows)
}

// GetFillsByOrder returns fill events for an order in time order.
func (r *SQLiteRepository) GetFillsByOrder(ctx context.Context, orderID string) ([]types.FillEvent, error) {
	query := `SELECT id, order_id, symbol, time, status, quantity, price, fee, message
		FROM fill_events WHERE order_id = ? ORDER BY time`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query fills by order: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return r.scanFills(rows)
}

func (r *SQLiteRepository) scanFills(rows *sql.Rows) ([]types.FillEvent, error) {
	var events []types.FillEvent
	for rows.Next() {
		var e types.FillEvent
		var status int
		var quantity, price, fee string
		var message sql.NullString

		if err := rows.Scan(&e.ID, &e.OrderID, &e.Symbol, &e.Time, &status, &quantity, &price, &fee, &message); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		e.Status = types.FillStatus(status)
		e.Quantity, _ = decimal.NewFromString(quantity)
		e.Price, _ = decimal.NewFromString(price)
		e.Fee, _ = decimal.NewFromString(fee)
		e.Message = message.String
		e.Time = e.Time.UTC()

		events = append(events, e)
	}

	return events, rows.Err()
}

// Ping reports whether the database still answers.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
