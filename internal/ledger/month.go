package ledger

import (
	"fmt"
	"time"
)

// MonthLayout is the "YYYY-MM" key used for billing periods.
const MonthLayout = "2006-01"

// Month is a calendar month with no day component.  Arithmetic is done
// on an absolute month index so adding months never overflows the day
// of month (Jan 31 plus one month is February, not March).
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a "YYYY-MM" key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return MonthOf(t), nil
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

func (m Month) index() int { return m.Year*12 + int(m.Month) - 1 }

func monthFromIndex(i int) Month {
	return Month{Year: i / 12, Month: time.Month(i%12 + 1)}
}

// AddMonths returns the month n months after m (before when n < 0).
func (m Month) AddMonths(n int) Month { return monthFromIndex(m.index() + n) }

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool { return m.index() < o.index() }

// After reports whether m is later than o.
func (m Month) After(o Month) bool { return m.index() > o.index() }

// FirstDay returns midnight UTC on the first day of m.
func (m Month) FirstDay() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats m as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(b []byte) error {
	p, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = p
	return nil
}

// MonthsBetween counts the months of the inclusive range [from, to].
// It is zero when from is after to.
func MonthsBetween(from, to Month) int {
	n := to.index() - from.index() + 1
	if n < 0 {
		return 0
	}
	return n
}

// Range lists every month of the inclusive range [from, to] in
// chronological order.  The result is empty when from is after to.
func Range(from, to Month) []Month {
	out := make([]Month, 0, MonthsBetween(from, to))
	for m := from; !m.After(to); m = m.AddMonths(1) {
		out = append(out, m)
	}
	return out
}
