package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar date (the engine's day-granular time abstraction)
// =============================================================================

// Day is a calendar date without time-of-day or location. It is a plain
// comparable value, safe as a map key and stable under serialization.
type Day struct {
	year  int
	month time.Month
	day   int
}

func NewDay(year int, month time.Month, day int) Day {
	// Route through time.Date so out-of-range components normalize.
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf truncates a timestamp to its calendar date.
func DayOf(t time.Time) Day {
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// ParseDay parses "2006-01-02".
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns the date at UTC midnight.
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Day) Before(o Day) bool { return d.Time().Before(o.Time()) }
func (d Day) After(o Day) bool  { return d.Time().After(o.Time()) }
func (d Day) Equal(o Day) bool  { return d == o }
func (d Day) IsZero() bool      { return d == Day{} }

// Arithmetic
func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

// Properties
func (d Day) Year() int             { return d.year }
func (d Day) Month() time.Month     { return d.month }
func (d Day) DayOfMonth() int       { return d.day }
func (d Day) Weekday() time.Weekday { return d.Time().Weekday() }

func (d Day) String() string { return d.Time().Format("2006-01-02") }

// Text marshaling makes Day usable as a JSON map key.
func (d Day) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// EachDay calls fn for every day in [from, to] in chronological order.
// An inverted range visits nothing.
func EachDay(from, to Day, fn func(Day)) {
	for d := from; !d.After(to); d = d.AddDays(1) {
		fn(d)
	}
}

// DaysIn returns the number of days in [from, to], zero for inverted ranges.
func DaysIn(from, to Day) int {
	if from.After(to) {
		return 0
	}
	return int(to.Time().Sub(from.Time()).Hours()/24) + 1
}
