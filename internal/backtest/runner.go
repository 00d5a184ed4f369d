// Package backtest replays historical market data against pending orders.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/tathienbao/fillsim/internal/feed"
	"github.com/tathienbao/fillsim/internal/fill"
	"github.com/tathienbao/fillsim/internal/hours"
	"github.com/tathienbao/fillsim/internal/metrics"
	"github.com/tathienbao/fillsim/internal/persistence"
	"github.com/tathienbao/fillsim/internal/subscription"
	"github.com/tathienbao/fillsim/internal/types"
)

// Config holds replay configuration.
type Config struct {
	Symbol        string
	Spec          types.InstrumentSpec
	Hours         hours.ExchangeHours
	Subscriptions subscription.Provider
	Model         fill.Config

	// PacePerSec throttles replay to this many snapshots per second.
	// Zero replays as fast as possible.
	PacePerSec int
}

// Result holds the outcome of a replay.
type Result struct {
	Snapshots  int
	Fills      []types.FillEvent
	Pending    []types.Order
	FirstTime  time.Time
	LastTime   time.Time
	StaleFills int
	Elapsed    time.Duration
}

// FillRate returns the share of submitted orders that filled.
func (r *Result) FillRate() float64 {
	total := len(r.Fills) + len(r.Pending)
	if total == 0 {
		return 0
	}
	return float64(len(r.Fills)) / float64(total)
}

// Runner replays a snapshot feed against a set of orders.
type Runner struct {
	cfg      Config
	model    *fill.Model
	feed     feed.SnapshotFeed
	recorder *metrics.Recorder
	repo     persistence.Repository
	logger   *slog.Logger
}

// NewRunner creates a replay runner. The recorder and repository are
// optional.
func NewRunner(cfg Config, f feed.SnapshotFeed, recorder *metrics.Recorder, repo persistence.Repository, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		cfg:      cfg,
		model:    fill.NewModel(cfg.Model, logger),
		feed:     f,
		recorder: recorder,
		repo:     repo,
		logger:   logger,
	}
}

// Run replays the feed against the given orders until the feed ends or
// the context is cancelled. Orders are evaluated against every snapshot
// and leave the pending set once they fill.
func (r *Runner) Run(ctx context.Context, orders []types.Order) (*Result, error) {
	start := time.Now()

	snapshots, err := r.feed.Subscribe(ctx, r.cfg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("subscribe feed: %w", err)
	}

	var limiter *rate.Limiter
	if r.cfg.PacePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.PacePerSec), 1)
	}

	pending := make([]types.Order, len(orders))
	copy(pending, orders)

	if r.repo != nil {
		for _, order := range pending {
			if err := r.repo.SaveOrder(ctx, order); err != nil {
				return nil, fmt.Errorf("journal order: %w", err)
			}
		}
	}

	result := &Result{}

	for snap := range snapshots {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		result.Snapshots++
		if result.FirstTime.IsZero() {
			result.FirstTime = snap.Time
		}
		result.LastTime = snap.Time

		if r.recorder != nil {
			r.recorder.RecordSnapshot(snap)
		}

		pending, err = r.evaluate(ctx, snap, pending, result)
		if err != nil {
			return result, err
		}
	}

	result.Pending = pending
	result.Elapsed = time.Since(start)

	if r.recorder != nil {
		r.recorder.RecordPendingOrders(r.cfg.Symbol, len(pending))
	}

	r.logger.Info("replay complete",
		"symbol", r.cfg.Symbol,
		"snapshots", result.Snapshots,
		"fills", len(result.Fills),
		"pending", len(pending),
		"elapsed", result.Elapsed,
	)

	return result, nil
}

// evaluate runs every pending order against one snapshot and returns the
// orders still pending afterwards.
func (r *Runner) evaluate(ctx context.Context, snap types.MarketSnapshot, pending []types.Order, result *Result) ([]types.Order, error) {
	sec := fill.Security{
		Symbol:        r.cfg.Symbol,
		Spec:          r.cfg.Spec,
		Hours:         r.cfg.Hours,
		Subscriptions: r.cfg.Subscriptions,
		Snapshot:      snap,
		Time:          snap.Time,
	}

	remaining := pending[:0]
	for _, order := range pending {
		timer := metrics.NewTimer()
		event, err := r.model.Fill(sec, order)
		if r.recorder != nil {
			r.recorder.RecordEvaluationLatency(timer.Elapsed())
		}

		if err != nil {
			// Missing data for one snapshot leaves the order pending.
			if errors.Is(err, types.ErrNoPriceData) {
				r.logger.Warn("no usable price data", "order_id", order.ID, "time", snap.Time)
				remaining = append(remaining, order)
				continue
			}
			if r.recorder != nil {
				r.recorder.RecordError("evaluation")
			}
			return nil, fmt.Errorf("evaluate order %s: %w", order.ID, err)
		}

		if r.recorder != nil {
			r.recorder.RecordFill(order, event)
		}

		if event.Status != types.FillStatusFilled {
			remaining = append(remaining, order)
			continue
		}

		result.Fills = append(result.Fills, event)
		if event.Message != "" {
			result.StaleFills++
		}

		if r.repo != nil {
			if err := r.repo.SaveFill(ctx, event); err != nil {
				return nil, fmt.Errorf("journal fill: %w", err)
			}
			if err := r.repo.MarkOrderFilled(ctx, order.ID); err != nil {
				return nil, fmt.Errorf("journal order status: %w", err)
			}
		}

		r.logger.Info("order filled",
			"order_id", order.ID,
			"type", order.Type.String(),
			"price", event.Price.String(),
			"quantity", event.Quantity.String(),
			"time", event.Time,
		)
	}

	return remaining, nil
}
