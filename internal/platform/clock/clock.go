// Package clock is the single source of "now" for date-sensitive logic.
package clock

import (
	"sync"
	"time"
)

// DateLayout is the calendar-day format used for summaries and streaks.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Real returns the wall clock in UTC.
func Real() Clock { return realClock{} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// Fixed always returns t (converted to UTC).
func Fixed(t time.Time) Clock { return fixedClock{t: t.UTC()} }

// Manual is a settable clock for tests that move through several days.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

func NewManual(t time.Time) *Manual { return &Manual{t: t.UTC()} }

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.t = t.UTC()
	m.mu.Unlock()
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.t = m.t.Add(d)
	m.mu.Unlock()
}

// Today formats the clock's current UTC date.
func Today(c Clock) string {
	return c.Now().UTC().Format(DateLayout)
}

// DayBounds returns the inclusive [00:00:00, 23:59:59.999999999] range of a YYYY-MM-DD date.
func DayBounds(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day, day.Add(24*time.Hour - time.Nanosecond), nil
}

// StartOfWeek returns Monday 00:00 UTC of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
