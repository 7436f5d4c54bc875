// Package numerator provides the contracts and formatting rules for
// day-scoped order numbers of the form DDMMNN.
package numerator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds numbering configuration.
type Config struct {
	// DayLayout renders the day prefix (Go layout, default "0201" = DDMM)
	DayLayout string

	// PadWidth is the minimum suffix width (default 2). Suffixes that do not
	// fit are written in full, so the 101st order of a day gets "100".
	PadWidth int
}

// DefaultConfig returns the DDMMNN scheme.
func DefaultConfig() Config {
	return Config{
		DayLayout: "0201",
		PadWidth:  2,
	}
}

// Prefix returns the day part of a number issued on day.
func (c Config) Prefix(day time.Time) string {
	return day.Format(c.DayLayout)
}

// Format builds a full number from the day prefix and a sequence value.
func (c Config) Format(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%0*d", c.Prefix(day), c.PadWidth, seq)
}

// ParseSuffix extracts the sequence value from number if it was issued on
// day's prefix. ok is false for foreign prefixes and malformed suffixes.
func (c Config) ParseSuffix(number string, day time.Time) (seq int64, ok bool) {
	prefix := c.Prefix(day)
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	suffix := number[len(prefix):]
	if len(suffix) < c.PadWidth {
		return 0, false
	}
	v, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// NextInSeries scans numbers already issued and returns the next one for
// day: highest suffix under day's prefix plus one, or zero when the day has
// no numbers yet.
func (c Config) NextInSeries(day time.Time, issued []string) string {
	next := int64(0)
	for _, n := range issued {
		if seq, ok := c.ParseSuffix(n, day); ok && seq+1 > next {
			next = seq + 1
		}
	}
	return c.Format(day, next)
}
