package hours

import (
	"testing"
	"time"
)

func chicagoSession(t *testing.T) *Daily {
	t.Helper()
	d, err := NewDaily("America/Chicago", "08:30", "15:00")
	if err != nil {
		t.Fatalf("NewDaily: %v", err)
	}
	return d
}

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func TestDaily_IsOpenAt(t *testing.T) {
	d := chicagoSession(t)
	loc := chicago(t)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"mid-session", time.Date(2024, 3, 15, 10, 0, 0, 0, loc), true}, // Friday
		{"at open", time.Date(2024, 3, 15, 8, 30, 0, 0, loc), true},
		{"at close", time.Date(2024, 3, 15, 15, 0, 0, 0, loc), false},
		{"before open", time.Date(2024, 3, 15, 7, 0, 0, 0, loc), false},
		{"saturday", time.Date(2024, 3, 16, 10, 0, 0, 0, loc), false},
		{"sunday", time.Date(2024, 3, 17, 10, 0, 0, 0, loc), false},
	}

	for _, tt := range tests {
		if got := d.IsOpenAt(tt.at); got != tt.want {
			t.Errorf("%s: IsOpenAt(%v) = %v, want %v", tt.name, tt.at, got, tt.want)
		}
	}
}

func TestDaily_NextOpen(t *testing.T) {
	d := chicagoSession(t)
	loc := chicago(t)

	// Before Friday's open: opens the same morning.
	at := time.Date(2024, 3, 15, 7, 0, 0, 0, loc)
	want := time.Date(2024, 3, 15, 8, 30, 0, 0, loc)
	if got := d.NextOpen(at); !got.Equal(want) {
		t.Errorf("NextOpen(%v) = %v, want %v", at, got, want)
	}

	// Mid-session Friday: next open is Monday, skipping the weekend.
	at = time.Date(2024, 3, 15, 10, 0, 0, 0, loc)
	want = time.Date(2024, 3, 18, 8, 30, 0, 0, loc)
	if got := d.NextOpen(at); !got.Equal(want) {
		t.Errorf("NextOpen(%v) = %v, want %v", at, got, want)
	}
}

func TestDaily_NextClose(t *testing.T) {
	d := chicagoSession(t)
	loc := chicago(t)

	// Mid-session: closes the same day.
	at := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)
	want := time.Date(2024, 3, 15, 15, 0, 0, 0, loc)
	if got := d.NextClose(at); !got.Equal(want) {
		t.Errorf("NextClose(%v) = %v, want %v", at, got, want)
	}

	// After Friday's close: next close is Monday.
	at = time.Date(2024, 3, 15, 16, 0, 0, 0, loc)
	want = time.Date(2024, 3, 18, 15, 0, 0, 0, loc)
	if got := d.NextClose(at); !got.Equal(want) {
		t.Errorf("NextClose(%v) = %v, want %v", at, got, want)
	}
}

func TestDaily_UTCConversion(t *testing.T) {
	d := chicagoSession(t)

	// 2024-03-15 14:00 UTC is 09:00 in Chicago (CDT): open.
	at := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	if !d.IsOpenAt(at) {
		t.Errorf("IsOpenAt(%v) = false, want true (09:00 local)", at)
	}
}

func TestNewDaily_Validation(t *testing.T) {
	if _, err := NewDaily("Not/AZone", "08:30", "15:00"); err == nil {
		t.Error("expected error for unknown timezone")
	}
	if _, err := NewDaily("UTC", "15:00", "08:30"); err == nil {
		t.Error("expected error when open is after close")
	}
	if _, err := NewDaily("UTC", "8h30", "15:00"); err == nil {
		t.Error("expected error for malformed time of day")
	}
}

func TestAlwaysOpen(t *testing.T) {
	var a AlwaysOpen
	at := time.Date(2024, 3, 16, 3, 0, 0, 0, time.UTC) // Saturday

	if !a.IsOpenAt(at) {
		t.Error("AlwaysOpen should be open on a Saturday night")
	}
	if !a.NextOpen(at).Equal(at) {
		t.Errorf("NextOpen = %v, want %v", a.NextOpen(at), at)
	}
	if !a.NextClose(at).After(at.AddDate(50, 0, 0)) {
		t.Errorf("NextClose = %v, want far future", a.NextClose(at))
	}
}
