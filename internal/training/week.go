package training

import (
	"time"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
)

var dayLabels = [7]string{"Lun", "Mar", "Mer", "Jeu", "Ven", "Sam", "Dim"}

type DayActivity struct {
	Date     string `json:"date"`
	DayLabel string `json:"day_label"`
	Active   bool   `json:"active"`
}

// WeekBounds returns Monday 00:00 UTC of the week containing now and the following Monday.
func WeekBounds(now time.Time) (start, end time.Time) {
	start = clock.StartOfWeek(now)
	return start, start.AddDate(0, 0, 7)
}

// WeeklyActivity marks each day Monday..Sunday of the week containing now that has at least one
// session. Sessions outside the week are ignored.
func WeeklyActivity(now time.Time, sessions []*types.SessionRecord) []DayActivity {
	start, end := WeekBounds(now)
	active := make(map[string]bool, 7)
	for _, s := range sessions {
		if s == nil {
			continue
		}
		at := s.CompletedAt.UTC()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		active[at.Format(clock.DateLayout)] = true
	}

	out := make([]DayActivity, 0, 7)
	for i, label := range dayLabels {
		date := start.AddDate(0, 0, i).Format(clock.DateLayout)
		out = append(out, DayActivity{Date: date, DayLabel: label, Active: active[date]})
	}
	return out
}
