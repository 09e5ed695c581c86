package training

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/amelfit-backend/internal/domain"
)

func TestAdvanceStreakSequence(t *testing.T) {
	s := types.EmptyStats(uuid.New())

	s = Advance(s, 3000, 30, "2026-03-02")
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.BestStreak)

	s = Advance(s, 2000, 20, "2026-03-02")
	assert.Equal(t, 1, s.CurrentStreak, "same day keeps the streak")
	assert.Equal(t, 1, s.BestStreak)

	s = Advance(s, 1000, 10, "2026-03-03")
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.BestStreak)

	s = Advance(s, 500, 5, "2026-03-06")
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.BestStreak, "best streak never decreases")

	assert.Equal(t, 6500, s.TotalSteps)
	assert.Equal(t, 65, s.TotalMinutes)
	assert.Equal(t, 4, s.SessionsCompleted)
	require.NotNil(t, s.LastSessionDate)
	assert.Equal(t, "2026-03-06", *s.LastSessionDate)
	assert.Equal(t, types.DefaultWeeklyGoal, s.WeeklyGoal)
}

func TestAdvanceClockWentBackwards(t *testing.T) {
	last := "2026-03-10"
	prev := types.UserStats{CurrentStreak: 4, BestStreak: 6, LastSessionDate: &last, WeeklyGoal: 15000}
	next := Advance(prev, 100, 1, "2026-03-08")
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 6, next.BestStreak)
	assert.Equal(t, 15000, next.WeeklyGoal)
}

func TestAdvanceDoesNotMutatePrev(t *testing.T) {
	last := "2026-03-01"
	prev := types.UserStats{TotalSteps: 10, CurrentStreak: 1, BestStreak: 1, LastSessionDate: &last}
	_ = Advance(prev, 5, 1, "2026-03-02")
	assert.Equal(t, 10, prev.TotalSteps)
	assert.Equal(t, "2026-03-01", *prev.LastSessionDate)
}

func TestAdvanceCrossesMonthBoundary(t *testing.T) {
	last := "2026-02-28"
	prev := types.UserStats{CurrentStreak: 3, BestStreak: 3, LastSessionDate: &last}
	assert.Equal(t, 4, Advance(prev, 0, 0, "2026-03-01").CurrentStreak)
}

func session(userID uuid.UUID, at time.Time, steps, minutes int) *types.SessionRecord {
	return &types.SessionRecord{ID: uuid.New(), UserID: userID, Steps: steps, DurationMinutes: minutes, CompletedAt: at}
}

func TestReplayMatchesIncrementalFold(t *testing.T) {
	uid := uuid.New()
	base := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	sessions := []*types.SessionRecord{
		session(uid, base.AddDate(0, 0, 4), 500, 5),
		session(uid, base, 3000, 30),
		session(uid, base.Add(6*time.Hour), 2000, 20),
		session(uid, base.AddDate(0, 0, 1), 1000, 10),
	}

	incremental := types.EmptyStats(uid)
	for _, d := range []struct {
		steps, minutes int
		day            string
	}{{3000, 30, "2026-03-02"}, {2000, 20, "2026-03-02"}, {1000, 10, "2026-03-03"}, {500, 5, "2026-03-06"}} {
		incremental = Advance(incremental, d.steps, d.minutes, d.day)
	}

	replayed := Replay(uid, sessions, 0)
	assert.True(t, incremental.SameTotals(replayed))
	assert.Equal(t, 6500, replayed.TotalSteps)
	assert.Equal(t, 2, replayed.BestStreak)
	assert.Equal(t, 500, sessions[0].Steps, "input order untouched")
}

func TestVerifyReportsDrift(t *testing.T) {
	uid := uuid.New()
	sessions := []*types.SessionRecord{session(uid, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 1200, 12)}

	cached := Replay(uid, sessions, 0)
	assert.True(t, Verify(cached, sessions).Consistent)

	cached.TotalSteps += 1
	v := Verify(cached, sessions)
	assert.False(t, v.Consistent)
	assert.Equal(t, 1200, v.Replayed.TotalSteps)
	assert.Equal(t, 1, v.Sessions)
}

func TestReplayEmptyLedger(t *testing.T) {
	uid := uuid.New()
	s := Replay(uid, nil, 0)
	assert.Equal(t, types.EmptyStats(uid), s)
}

func TestWeeklyActivity(t *testing.T) {
	uid := uuid.New()
	// Thursday.
	now := time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC)
	sessions := []*types.SessionRecord{
		session(uid, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 1, 1),
		session(uid, time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC), 1, 1),
		session(uid, time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC), 1, 1),
		session(uid, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), 1, 1),
	}
	week := WeeklyActivity(now, sessions)
	require.Len(t, week, 7)

	assert.Equal(t, DayActivity{Date: "2026-03-02", DayLabel: "Lun", Active: true}, week[0])
	assert.Equal(t, DayActivity{Date: "2026-03-08", DayLabel: "Dim", Active: false}, week[6])
	var active []string
	for _, d := range week {
		if d.Active {
			active = append(active, d.Date)
		}
	}
	assert.Equal(t, []string{"2026-03-02", "2026-03-04"}, active)
}

func TestWeeklyActivityOnSunday(t *testing.T) {
	week := WeeklyActivity(time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC), nil)
	assert.Equal(t, "2026-03-02", week[0].Date)
	assert.Equal(t, "2026-03-08", week[6].Date)
}
