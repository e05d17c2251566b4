package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Minutes-per-unit constants.
const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// TimeOfDay is a wall-clock time stored as minutes since midnight.
// Storing minutes instead of an "HH:MM" string makes ordering plain integer
// comparison and makes "9:5" and "09:05" the same value.
type TimeOfDay int

// MinutesOfDay builds a TimeOfDay from an hour and minute.
func MinutesOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: hour %d out of range", ErrInvalidTime, hour)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: minute %d out of range", ErrInvalidTime, minute)
	}
	return TimeOfDay(hour*minutesPerHour + minute), nil
}

// ParseTimeOfDay parses "HH:MM" or "H:MM" 24-hour strings.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q has a non-numeric hour", ErrInvalidTime, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q has a non-numeric minute", ErrInvalidTime, s)
	}
	return MinutesOfDay(hour, minute)
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int { return int(t) / minutesPerHour }

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int { return int(t) % minutesPerHour }

// Valid reports whether t is inside a single day.
func (t TimeOfDay) Valid() bool { return t >= 0 && t < minutesPerDay }

// String formats the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Date is a civil calendar date with no time-of-day or timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates an instant to its civil date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// Time returns the date as midnight UTC, useful for day arithmetic.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n civil days later, normalizing month and year
// rollover through the time package.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Key returns a monotonic integer key (YYYYMMDD) for ordering.
func (d Date) Key() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

// Equal reports whether two dates name the same civil day.
func (d Date) Equal(o Date) bool { return d.Key() == o.Key() }

// Before reports whether d is an earlier civil day than o.
func (d Date) Before(o Date) bool { return d.Key() < o.Key() }

// After reports whether d is a later civil day than o.
func (d Date) After(o Date) bool { return d.Key() > o.Key() }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
