package fill

import (
	"strings"
	"testing"
	"time"
)

func TestDetector_FreshData(t *testing.T) {
	d := Detector{Threshold: time.Hour}
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	msg, stale := d.Check(now.Add(-30*time.Minute), now)
	if stale {
		t.Errorf("data 30m old with 1h threshold flagged stale: %q", msg)
	}
}

func TestDetector_StaleData(t *testing.T) {
	d := Detector{Threshold: time.Hour}
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	msg, stale := d.Check(now.Add(-2*time.Hour), now)
	if !stale {
		t.Fatal("data 2h old with 1h threshold not flagged stale")
	}
	if !strings.Contains(msg, "stale price") {
		t.Errorf("warning = %q, want it to mention a stale price", msg)
	}
}

func TestDetector_ExactThresholdIsFresh(t *testing.T) {
	d := Detector{Threshold: time.Hour}
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	if _, stale := d.Check(now.Add(-time.Hour), now); stale {
		t.Error("data exactly at threshold flagged stale")
	}
}

func TestDetector_Disabled(t *testing.T) {
	d := Detector{}
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	if _, stale := d.Check(now.Add(-240*time.Hour), now); stale {
		t.Error("zero threshold should disable the check")
	}
}
