// Package training folds walking-programme sessions into per-user stats.
//
// Everything here is pure: callers supply the previous stats and the UTC date, storage lives in
// internal/data.
package training

import (
	"time"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
)

// Advance applies one completed session to prev. today must be a YYYY-MM-DD UTC date.
//
// Streak transitions on the day gap since prev.LastSessionDate:
//
//	none   -> 1
//	0      -> unchanged
//	1      -> +1
//	>1     -> 1
//	<0     -> 1 (clock went backwards, handled as no previous date)
func Advance(prev types.UserStats, steps, minutes int, today string) types.UserStats {
	next := prev
	next.TotalSteps += steps
	next.TotalMinutes += minutes
	next.SessionsCompleted++

	gap, ok := dayGap(prev.LastSessionDate, today)
	switch {
	case !ok || gap < 0:
		next.CurrentStreak = 1
	case gap == 0:
		if next.CurrentStreak < 1 {
			next.CurrentStreak = 1
		}
	case gap == 1:
		next.CurrentStreak++
	default:
		next.CurrentStreak = 1
	}
	next.BestStreak = max(prev.BestStreak, next.CurrentStreak)

	d := today
	next.LastSessionDate = &d
	if next.WeeklyGoal <= 0 {
		next.WeeklyGoal = types.DefaultWeeklyGoal
	}
	return next
}

// dayGap returns the whole-day distance from last to today. ok is false when last is unset or
// either date fails to parse.
func dayGap(last *string, today string) (int, bool) {
	if last == nil || *last == "" {
		return 0, false
	}
	from, err := time.ParseInLocation(clock.DateLayout, *last, time.UTC)
	if err != nil {
		return 0, false
	}
	to, err := time.ParseInLocation(clock.DateLayout, today, time.UTC)
	if err != nil {
		return 0, false
	}
	return int(to.Sub(from).Hours() / 24), true
}
