package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
)

const sampleCSV = `timestamp,open,high,low,close,volume
2024-03-15 14:30:00,101.00,101.50,100.75,101.25,1200
2024-03-15 14:35:00,101.25,101.75,101.00,101.50,900
2024-03-15 14:40:00,101.50,102.00,101.25,101.75,1500
`

func TestParseCSV(t *testing.T) {
	snaps, err := ParseCSV(strings.NewReader(sampleCSV), "MES", 5*time.Minute)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}

	first := snaps[0]
	if first.Symbol != "MES" {
		t.Errorf("symbol = %s, want MES", first.Symbol)
	}
	if first.TradeBar == nil {
		t.Fatal("expected a trade bar")
	}
	if !first.TradeBar.Open.Equal(decimal.RequireFromString("101.00")) {
		t.Errorf("open = %s, want 101.00", first.TradeBar.Open)
	}
	if !first.TradeBar.High.Equal(decimal.RequireFromString("101.50")) {
		t.Errorf("high = %s, want 101.50", first.TradeBar.High)
	}
	if first.TradeBar.Volume != 1200 {
		t.Errorf("volume = %d, want 1200", first.TradeBar.Volume)
	}

	// The snapshot is stamped at the bar's end, not its start.
	wantTime := time.Date(2024, 3, 15, 14, 35, 0, 0, time.UTC)
	if !first.Time.Equal(wantTime) {
		t.Errorf("snapshot time = %v, want %v", first.Time, wantTime)
	}
}

func TestParseCSV_SkipsMalformedRows(t *testing.T) {
	csv := `timestamp,open,high,low,close,volume
2024-03-15 14:30:00,101.00,101.50,100.75,101.25,1200
not-a-timestamp,101.25,101.75,101.00,101.50,900
2024-03-15 14:40:00,abc,102.00,101.25,101.75,1500
2024-03-15 14:45:00,101.75,102.25,101.50,102.00,800
`
	snaps, err := ParseCSV(strings.NewReader(csv), "MES", 5*time.Minute)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Errorf("got %d snapshots, want 2 (malformed rows skipped)", len(snaps))
	}
}

func TestParseCSV_UnixTimestamps(t *testing.T) {
	csv := "1710513000,101.00,101.50,100.75,101.25,1200\n"
	snaps, err := ParseCSV(strings.NewReader(csv), "MES", time.Minute)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}

	wantBarTime := time.Unix(1710513000, 0).UTC()
	if !snaps[0].TradeBar.Time.Equal(wantBarTime) {
		t.Errorf("bar time = %v, want %v", snaps[0].TradeBar.Time, wantBarTime)
	}
}

func TestCSVFeed_Subscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f := NewCSVFeed(path, "MES", 5*time.Minute)
	defer func() { _ = f.Close() }()

	ch, err := f.Subscribe(context.Background(), "MES")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	var count int
	for range ch {
		count++
	}
	if count != 3 {
		t.Errorf("received %d snapshots, want 3", count)
	}
	if f.SnapshotCount() != 3 {
		t.Errorf("SnapshotCount = %d, want 3", f.SnapshotCount())
	}
}

func TestCSVFeed_MissingFile(t *testing.T) {
	f := NewCSVFeed(filepath.Join(t.TempDir(), "absent.csv"), "MES", time.Minute)
	if _, err := f.Subscribe(context.Background(), "MES"); err == nil {
		t.Error("expected an error for a missing data file")
	}
}

func TestMemoryFeed_Subscribe(t *testing.T) {
	base := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	f := NewMemoryFeed(nil)
	for i := 0; i < 3; i++ {
		f.Add(types.MarketSnapshot{
			Symbol: "MES",
			Time:   base.Add(time.Duration(i) * time.Minute),
			TradeBar: &types.TradeBar{Bar: types.Bar{
				Time:   base.Add(time.Duration(i) * time.Minute),
				Period: time.Minute,
				Close:  decimal.NewFromInt(100 + int64(i)),
			}},
		})
	}
	f.Add(types.MarketSnapshot{Symbol: "MGC", Time: base})

	ch, err := f.Subscribe(context.Background(), "MES")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	var got []types.MarketSnapshot
	for snap := range ch {
		got = append(got, snap)
	}

	if len(got) != 3 {
		t.Fatalf("received %d snapshots, want 3", len(got))
	}
	for i, snap := range got {
		if snap.Symbol != "MES" {
			t.Errorf("snapshot %d symbol = %s, want MES", i, snap.Symbol)
		}
	}
	// Delivery order matches insertion order.
	if !got[0].Time.Before(got[1].Time) || !got[1].Time.Before(got[2].Time) {
		t.Error("snapshots delivered out of order")
	}
}

func TestMemoryFeed_SubscribeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewMemoryFeed(make([]types.MarketSnapshot, 0))
	ch, err := f.Subscribe(ctx, "MES")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	for range ch {
		t.Error("expected no snapshots after cancel")
	}
}
