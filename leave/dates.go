package leave

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Civil date (no time zone, no clock component)
// =============================================================================

// Date is a calendar day. Leave requests operate on whole days; the clock
// component of the underlying time is always UTC midnight.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int       { return d.t.Year() }
func (d Date) Month() int      { return int(d.t.Month()) }
func (d Date) Day() int        { return d.t.Day() }
func (d Date) IsZero() bool    { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// DaysInclusive returns the day count of [from, to] counting both endpoints.
// A single-day range is 1 day.
func DaysInclusive(from, to Date) int {
	return int(to.t.Sub(from.t).Hours()/24) + 1
}

// =============================================================================
// TIME OF DAY - For short-leave start/end times
// =============================================================================

// TimeOfDay is a wall-clock time within a day, minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an HH:MM string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Hour < other.Hour || (t.Hour == other.Hour && t.Minute < other.Minute)
}

func (t TimeOfDay) IsZero() bool { return t.Hour == 0 && t.Minute == 0 }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }
