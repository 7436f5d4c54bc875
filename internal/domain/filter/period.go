// Package filter implements the list filters shared by purchase and supplier views:
// coarse date periods and boolean CEL expressions.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"kls/internal/core/apperror"
)

// Period is a coarse date range relative to a reference day.
type Period string

const (
	PeriodAll         Period = ""
	PeriodToday       Period = "today"
	PeriodYesterday   Period = "yesterday"
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodLastMonth   Period = "last_month"
	PeriodLast3Months Period = "last_3_months"
	PeriodOlder       Period = "older"
)

// ParsePeriod accepts the period names used by the API ("all" means no filter).
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "all":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth,
		PeriodLastMonth, PeriodLast3Months, PeriodOlder:
		return p, nil
	}
	return PeriodAll, apperror.NewValidation(fmt.Sprintf("unknown period %q", s)).
		WithDetail("field", "period")
}

func calendar(ref time.Time) *now.Now {
	cfg := &now.Config{
		WeekStartDay: time.Sunday,
		TimeLocation: ref.Location(),
	}
	return cfg.With(ref)
}

// Contains reports whether date falls into p as seen from ref.
// today, week and month overlap; older is everything before the current month.
func (p Period) Contains(date, ref time.Time) bool {
	date = date.In(ref.Location())
	cal := calendar(ref)

	switch p {
	case PeriodAll:
		return true
	case PeriodToday:
		return within(date, cal.BeginningOfDay(), cal.EndOfDay())
	case PeriodYesterday:
		y := calendar(ref.AddDate(0, 0, -1))
		return within(date, y.BeginningOfDay(), y.EndOfDay())
	case PeriodWeek:
		return within(date, cal.BeginningOfWeek(), cal.EndOfWeek())
	case PeriodMonth:
		return within(date, cal.BeginningOfMonth(), cal.EndOfMonth())
	case PeriodLastMonth:
		last := calendar(cal.BeginningOfMonth().AddDate(0, 0, -1))
		return within(date, last.BeginningOfMonth(), last.EndOfMonth())
	case PeriodLast3Months:
		return date.After(ref.AddDate(0, -3, 0)) && !date.After(cal.EndOfDay())
	case PeriodOlder:
		return date.Before(cal.BeginningOfMonth())
	}
	return false
}

// Group places date into exactly one listing section: today, yesterday,
// week, month or older, checked in that order.
func Group(date, ref time.Time) Period {
	for _, p := range []Period{PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth} {
		if p.Contains(date, ref) {
			return p
		}
	}
	return PeriodOlder
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
