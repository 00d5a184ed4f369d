package feed

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

// CSVFeed replays trade bars from a CSV file as market snapshots.
// CSV format: timestamp,open,high,low,close,volume
// Timestamp format: 2006-01-02 15:04:05 or Unix timestamp.
type CSVFeed struct {
	filePath  string
	symbol    string
	period    time.Duration
	snapshots []types.MarketSnapshot
	loaded    bool
}

// NewCSVFeed creates a feed from a CSV file of bars with the given period.
func NewCSVFeed(filePath, symbol string, period time.Duration) *CSVFeed {
	return &CSVFeed{
		filePath: filePath,
		symbol:   symbol,
		period:   period,
	}
}

// Subscribe starts sending historical snapshots in file order.
func (f *CSVFeed) Subscribe(ctx context.Context, symbol string) (<-chan types.MarketSnapshot, error) {
	if !f.loaded {
		if err := f.load(); err != nil {
			return nil, err
		}
	}

	ch := make(chan types.MarketSnapshot, 100)

	go func() {
		defer close(ch)
		for _, snap := range f.snapshots {
			if snap.Symbol != symbol {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case ch <- snap:
			}
		}
	}()

	return ch, nil
}

// Close releases resources.
func (f *CSVFeed) Close() error {
	f.snapshots = nil
	f.loaded = false
	return nil
}

// Name returns the feed identifier.
func (f *CSVFeed) Name() string {
	return "csv"
}

// SnapshotCount returns the number of loaded snapshots.
func (f *CSVFeed) SnapshotCount() int {
	return len(f.snapshots)
}

func (f *CSVFeed) load() error {
	file, err := os.Open(f.filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	snapshots, err := ParseCSV(file, f.symbol, f.period)
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}

	f.snapshots = snapshots
	f.loaded = true
	return nil
}

// ParseCSV parses bar rows from a CSV reader into snapshots. A header row
// is skipped; malformed rows are skipped rather than failing the replay.
func ParseCSV(r io.Reader, symbol string, period time.Duration) ([]types.MarketSnapshot, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true

	var snapshots []types.MarketSnapshot
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		lineNum++

		// Skip header row
		if lineNum == 1 && isHeader(record) {
			continue
		}

		if len(record) < 5 {
			continue // Skip invalid rows
		}

		snap, err := parseRecord(record, symbol, period)
		if err != nil {
			// Skip invalid rows instead of failing
			continue
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

// parseRecord parses a single CSV record into a snapshot carrying one
// trade bar. The snapshot is timestamped at the bar's end: the bar is only
// known once its period has elapsed.
func parseRecord(record []string, symbol string, period time.Duration) (types.MarketSnapshot, error) {
	ts, err := parseTimestamp(record[0])
	if err != nil {
		return types.MarketSnapshot{}, fmt.Errorf("parse timestamp: %w", err)
	}

	bar := types.Bar{Time: ts, Period: period}

	bar.Open, err = decimal.NewFromString(record[1])
	if err != nil {
		return types.MarketSnapshot{}, fmt.Errorf("parse open: %w", err)
	}
	bar.High, err = decimal.NewFromString(record[2])
	if err != nil {
		return types.MarketSnapshot{}, fmt.Errorf("parse high: %w", err)
	}
	bar.Low, err = decimal.NewFromString(record[3])
	if err != nil {
		return types.MarketSnapshot{}, fmt.Errorf("parse low: %w", err)
	}
	bar.Close, err = decimal.NewFromString(record[4])
	if err != nil {
		return types.MarketSnapshot{}, fmt.Errorf("parse close: %w", err)
	}

	tradeBar := &types.TradeBar{Bar: bar}
	if len(record) > 5 {
		if vol, err := strconv.ParseInt(record[5], 10, 64); err == nil {
			tradeBar.Volume = vol
		}
	}

	return types.MarketSnapshot{
		Symbol:   symbol,
		Time:     bar.EndTime(),
		TradeBar: tradeBar,
	}, nil
}

// parseTimestamp tries multiple timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	// Try Unix timestamp first
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}

	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unknown timestamp format: %s", s)
}

// isHeader checks if a record looks like a header row.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	headers := []string{"timestamp", "time", "date", "datetime", "open", "high", "low", "close"}
	first := record[0]
	for _, h := range headers {
		if first == h {
			return true
		}
	}
	return false
}

// MemoryFeed supplies snapshots from an in-memory slice. Useful for testing.
type MemoryFeed struct {
	snapshots []types.MarketSnapshot
}

// NewMemoryFeed creates a feed from pre-built snapshots.
func NewMemoryFeed(snapshots []types.MarketSnapshot) *MemoryFeed {
	return &MemoryFeed{snapshots: snapshots}
}

// Subscribe starts sending snapshots from memory.
func (f *MemoryFeed) Subscribe(ctx context.Context, symbol string) (<-chan types.MarketSnapshot, error) {
	ch := make(chan types.MarketSnapshot, len(f.snapshots))

	go func() {
		defer close(ch)
		for _, snap := range f.snapshots {
			if snap.Symbol != symbol {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case ch <- snap:
			}
		}
	}()

	return ch, nil
}

// Close is a no-op for memory feed.
func (f *MemoryFeed) Close() error {
	return nil
}

// Name returns the feed identifier.
func (f *MemoryFeed) Name() string {
	return "memory"
}

// Add appends a snapshot to the feed.
func (f *MemoryFeed) Add(snap types.MarketSnapshot) {
	f.snapshots = append(f.snapshots, snap)
}
