package entity

import (
	"fmt"
	"time"

	"history_backend/internal/feature/bars/domain"
)

// MonthKey identifies one calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses "YYYY-MM".
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, s)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// String formats the month as "YYYY-MM", the form the provider expects.
func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Compare returns -1, 0 or +1 depending on whether m is before, equal to or after o.
func (m MonthKey) Compare(o MonthKey) int {
	switch {
	case m.Year < o.Year:
		return -1
	case m.Year > o.Year:
		return 1
	case m.Month < o.Month:
		return -1
	case m.Month > o.Month:
		return 1
	default:
		return 0
	}
}

// Next returns the following month, rolling over to January of the next year.
func (m MonthKey) Next() MonthKey {
	if m.Month == time.December {
		return MonthKey{Year: m.Year + 1, Month: time.January}
	}
	return MonthKey{Year: m.Year, Month: m.Month + 1}
}

// Start returns the first instant of the month in loc.
func (m MonthKey) Start(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// End returns the first instant of the following month in loc (exclusive bound).
func (m MonthKey) End(loc *time.Location) time.Time {
	return m.Next().Start(loc)
}

// MonthRange enumerates every month from start to end inclusive, in ascending order.
func MonthRange(start, end MonthKey) ([]MonthKey, error) {
	if start.Compare(end) > 0 {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrInvalidRange, start, end)
	}
	var out []MonthKey
	for m := start; m.Compare(end) <= 0; m = m.Next() {
		out = append(out, m)
	}
	return out, nil
}
