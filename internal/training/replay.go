package training

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
)

// Replay rebuilds stats from the full session ledger. Sessions are applied in completed_at order;
// the input slice is not modified.
func Replay(userID uuid.UUID, sessions []*types.SessionRecord, weeklyGoal int) types.UserStats {
	ordered := make([]*types.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if s != nil {
			ordered = append(ordered, s)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CompletedAt.Before(ordered[j].CompletedAt)
	})

	stats := types.EmptyStats(userID)
	if weeklyGoal > 0 {
		stats.WeeklyGoal = weeklyGoal
	}
	for _, s := range ordered {
		stats = Advance(stats, s.Steps, s.DurationMinutes, s.CompletedAt.UTC().Format(clock.DateLayout))
	}
	return stats
}

// Verification compares the cached stats row against a ledger replay.
type Verification struct {
	UserID     uuid.UUID       `json:"user_id"`
	Consistent bool            `json:"consistent"`
	Cached     types.UserStats `json:"cached"`
	Replayed   types.UserStats `json:"replayed"`
	Sessions   int             `json:"sessions"`
}

func Verify(cached types.UserStats, sessions []*types.SessionRecord) Verification {
	replayed := Replay(cached.UserID, sessions, cached.WeeklyGoal)
	return Verification{
		UserID:     cached.UserID,
		Consistent: cached.SameTotals(replayed),
		Cached:     cached,
		Replayed:   replayed,
		Sessions:   len(sessions),
	}
}
