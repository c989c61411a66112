package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/davidag/xtimetracker/internal/clock"
)

// Period is a shortcut for common report windows anchored on the current
// date.
type Period int

const (
	PeriodNone Period = iota
	PeriodDay
	PeriodWeek
	PeriodMonth
	PeriodYear
	PeriodFull
)

var weekdays = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// PeriodStart returns the start time of the given period relative to the
// clock's current date: local midnight of today, the first day of the current
// week/month/year, or the epoch for PeriodFull. The week start day defaults
// to Monday and can be overridden with weekStart.
func PeriodStart(clk clock.Clock, period Period, weekStart string) (time.Time, error) {
	now := clk.Now().In(time.Local)
	year, month, day := now.Date()

	switch period {
	case PeriodDay:
		return time.Date(year, month, day, 0, 0, 0, 0, time.Local), nil
	case PeriodWeek:
		monday := time.Date(year, month, day, 0, 0, 0, 0, time.Local).
			AddDate(0, 0, -mondayBasedWeekday(now))
		return applyWeekdayOffset(monday, weekStart, now), nil
	case PeriodMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, time.Local), nil
	case PeriodYear:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local), nil
	case PeriodFull:
		return time.Unix(0, 0).In(time.Local), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported period value %d", ErrValidation, period)
	}
}

// applyWeekdayOffset moves the start of a week beginning on Monday to one
// beginning on weekStart. Weeks never start in the future: when the requested
// weekday is later in the week than today, the previous occurrence is used.
// An unrecognized weekStart leaves the start time unchanged.
func applyWeekdayOffset(startTime time.Time, weekStart string, now time.Time) time.Time {
	target, ok := weekdays[strings.ToLower(weekStart)]
	if !ok {
		return startTime
	}
	offset := target
	if target > mondayBasedWeekday(now) {
		offset -= 7
	}
	return startTime.AddDate(0, 0, offset)
}

// mondayBasedWeekday maps time.Weekday (Sunday = 0) onto a Monday = 0 scale.
func mondayBasedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
