package models

import (
	"fmt"
	"time"
)

// DateLayout is the date-picker wire format.
const DateLayout = "2006-01-02"

// Day is a calendar date with no time-of-day or zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf truncates t to its calendar date as seen in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay reads YYYY-MM-DD, or an RFC 3339 timestamp whose written date is kept
// as-is (its clock and offset are discarded).
func ParseDay(s string) (Day, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DayOf(t, nil), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t, nil), nil
	}
	return Day{}, fmt.Errorf("invalid calendar date %q", s)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
