// Package clock supplies the calendar the ledger runs on: the current day
// and the canonical dd-MM-yyyy text form used for storage and display.
package clock

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Layout is the canonical date format (dd-MM-yyyy).
const Layout = "02-01-2006"

// Clock returns the current instant. Services ask it for "today" so that
// day rollover can be simulated in tests.
type Clock interface {
	Now() time.Time
}

// System is the wall clock in the configured location.
type System struct {
	Location *time.Location
}

// Now implements Clock.
func (s System) Now() time.Time {
	if s.Location != nil {
		return time.Now().In(s.Location)
	}
	return time.Now()
}

// Today truncates the clock to local midnight.
func Today(c Clock) time.Time {
	return StartOfDay(c.Now())
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Format renders t as dd-MM-yyyy.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads dd-MM-yyyy. ISO dates (yyyy-MM-dd) and RFC 3339 timestamps
// are accepted too, since older saved data used them.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{Layout, time.DateOnly, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected dd-mm-yyyy", s)
}

// Fixed is a manually advanced clock for tests and seeding.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed creates a clock frozen at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now implements Clock.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
