// Package hours models exchange session boundaries.
package hours

import (
	"fmt"
	"time"
)

// ExchangeHours answers session queries for a single exchange.
type ExchangeHours interface {
	// IsOpenAt reports whether the exchange is open at t.
	IsOpenAt(t time.Time) bool

	// NextOpen returns the first session open strictly after t, or t's own
	// session open if the session has not opened yet that day.
	NextOpen(t time.Time) time.Time

	// NextClose returns the first session close strictly after t.
	NextClose(t time.Time) time.Time
}

// Daily is a weekday session with fixed open and close times in the
// exchange time zone. Saturdays and Sundays are closed.
type Daily struct {
	loc   *time.Location
	open  time.Duration // offset from local midnight
	close time.Duration
}

// NewDaily builds a Daily session. Open and close are "15:04" local times
// and open must precede close.
func NewDaily(timezone, open, close string) (*Daily, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	openOfs, err := parseTimeOfDay(open)
	if err != nil {
		return nil, fmt.Errorf("parse session open: %w", err)
	}
	closeOfs, err := parseTimeOfDay(close)
	if err != nil {
		return nil, fmt.Errorf("parse session close: %w", err)
	}
	if openOfs >= closeOfs {
		return nil, fmt.Errorf("session open %s must precede close %s", open, close)
	}

	return &Daily{loc: loc, open: openOfs, close: closeOfs}, nil
}

// IsOpenAt reports whether t falls inside the session.
func (d *Daily) IsOpenAt(t time.Time) bool {
	local := t.In(d.loc)
	if !isTradingDay(local) {
		return false
	}
	ofs := timeOfDay(local)
	return ofs >= d.open && ofs < d.close
}

// NextOpen returns the next session open after t.
func (d *Daily) NextOpen(t time.Time) time.Time {
	local := t.In(d.loc)
	for day := 0; ; day++ {
		candidate := midnight(local).AddDate(0, 0, day).Add(d.open)
		if candidate.After(local) && isTradingDay(candidate) {
			return candidate
		}
	}
}

// NextClose returns the next session close after t.
func (d *Daily) NextClose(t time.Time) time.Time {
	local := t.In(d.loc)
	for day := 0; ; day++ {
		candidate := midnight(local).AddDate(0, 0, day).Add(d.close)
		if candidate.After(local) && isTradingDay(candidate) {
			return candidate
		}
	}
}

// AlwaysOpen models a venue with no session boundaries, such as a 24/7
// crypto market. NextOpen collapses to t so session-window checks pass
// immediately; NextClose is pushed far into the future.
type AlwaysOpen struct{}

func (AlwaysOpen) IsOpenAt(time.Time) bool { return true }

func (AlwaysOpen) NextOpen(t time.Time) time.Time { return t }

func (AlwaysOpen) NextClose(t time.Time) time.Time { return t.AddDate(100, 0, 0) }

func parseTimeOfDay(s string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
