package clock

import (
	"testing"
	"time"
)

func TestStartOfWeekIsMonday(t *testing.T) {
	cases := map[string]string{
		"2026-03-02T10:00:00Z": "2026-03-02", // Monday
		"2026-03-08T23:59:00Z": "2026-03-02", // Sunday
		"2026-03-04T00:00:01Z": "2026-03-02", // Wednesday
	}
	for in, want := range cases {
		ts, err := time.Parse(time.RFC3339, in)
		if err != nil {
			t.Fatalf("parse %s: %v", in, err)
		}
		if got := StartOfWeek(ts).Format(DateLayout); got != want {
			t.Fatalf("StartOfWeek(%s): want=%s got=%s", in, want, got)
		}
	}
}

func TestDayBoundsInclusive(t *testing.T) {
	start, end, err := DayBounds("2026-03-05")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if start.Format(time.RFC3339) != "2026-03-05T00:00:00Z" {
		t.Fatalf("start: %s", start)
	}
	if end.Format("15:04:05") != "23:59:59" || end.Day() != 5 {
		t.Fatalf("end: %s", end)
	}
	lastSecond := time.Date(2026, 3, 5, 23, 59, 59, 500_000_000, time.UTC)
	if lastSecond.After(end) {
		t.Fatalf("%s should fall inside the day ending %s", lastSecond, end)
	}
	if next := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC); !next.After(end) {
		t.Fatalf("next midnight %s must be outside the day", next)
	}
	if _, _, err := DayBounds("05/03/2026"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestManualAdvance(t *testing.T) {
	m := NewManual(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC))
	m.Advance(2 * time.Hour)
	if got := Today(m); got != "2026-02-01" {
		t.Fatalf("Today: got=%s", got)
	}
}
