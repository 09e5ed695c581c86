package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/redislock"
	"github.com/yungbote/amelfit-backend/internal/training"
)

const (
	defaultStatsMaxAttempts = 5
	defaultStatsRetryBase   = 20 * time.Millisecond
	defaultStatsRetryMax    = 400 * time.Millisecond
)

type UserStatsAggregateDeps struct {
	Base BaseDeps

	Sessions repos.SessionRecordRepo
	Stats    repos.UserStatsRepo

	// CAS overrides Base.CASGuard for the stats row.
	CAS VersionedUpdater
	// Locker serializes same-user writers in front of the CAS. Defaults to an in-process lock.
	Locker redislock.Locker

	MaxAttempts int
	RetryBase   time.Duration
	RetryMax    time.Duration
}

type userStatsAggregate struct {
	deps UserStatsAggregateDeps
}

func NewUserStatsAggregate(deps UserStatsAggregateDeps) domainagg.UserStatsAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.CAS == nil {
		deps.CAS = deps.Base.CASGuard
	}
	if deps.Locker == nil {
		deps.Locker = redislock.NewLocal()
	}
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = defaultStatsMaxAttempts
	}
	if deps.RetryBase <= 0 {
		deps.RetryBase = defaultStatsRetryBase
	}
	if deps.RetryMax <= 0 {
		deps.RetryMax = defaultStatsRetryMax
	}
	return &userStatsAggregate{deps: deps}
}

func (a *userStatsAggregate) Contract() domainagg.Contract {
	return domainagg.UserStatsAggregateContract
}

func (a *userStatsAggregate) CompleteSession(ctx context.Context, in domainagg.CompleteSessionInput) (domainagg.CompleteSessionResult, error) {
	const op = "Training.UserStats.CompleteSession"
	var out domainagg.CompleteSessionResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if err := RequireNonNegative(map[string]int{
		"week_id":          in.WeekID,
		"seance_id":        in.SeanceID,
		"steps":            in.Steps,
		"duration_minutes": in.DurationMinutes,
		"phases_completed": in.PhasesCompleted,
	}); err != nil {
		return out, MapError(op, err)
	}
	if a.deps.Sessions == nil || a.deps.Stats == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "user stats aggregate repos not configured", nil)
	}

	completedAt := in.CompletedAt.UTC()
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}
	today := completedAt.Format(clock.DateLayout)

	release, err := a.deps.Locker.Lock(ctx, "user_stats:"+in.UserID.String())
	if err != nil {
		return out, domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}
	defer release()

	var res domainagg.CompleteSessionResult
	attempts, err := executeWriteRetrying(ctx, a.deps.Base, op, retryPolicy{
		MaxAttempts: a.deps.MaxAttempts,
		Base:        a.deps.RetryBase,
		Max:         a.deps.RetryMax,
	}, func(dbc dbctx.Context) error {
		prev, err := a.deps.Stats.EnsureRow(dbc, in.UserID)
		if err != nil {
			return err
		}
		if prev == nil {
			return InvariantError("stats row missing after ensure")
		}

		session := &types.SessionRecord{
			ID:              uuid.New(),
			UserID:          in.UserID,
			WeekID:          in.WeekID,
			SeanceID:        in.SeanceID,
			Steps:           in.Steps,
			DurationMinutes: in.DurationMinutes,
			PhasesCompleted: in.PhasesCompleted,
			CompletedAt:     completedAt,
		}
		if _, err := a.deps.Sessions.Create(dbc, []*types.SessionRecord{session}); err != nil {
			return err
		}

		next := training.Advance(*prev, in.Steps, in.DurationMinutes, today)
		next.UpdatedAt = time.Now().UTC()
		ok, err := a.deps.CAS.UpdateByVersion(dbc, "user_stats", "user_id", in.UserID, prev.Version, map[string]any{
			"total_steps":        next.TotalSteps,
			"total_minutes":      next.TotalMinutes,
			"sessions_completed": next.SessionsCompleted,
			"current_streak":     next.CurrentStreak,
			"best_streak":        next.BestStreak,
			"last_session_date":  next.LastSessionDate,
			"weekly_goal":        next.WeeklyGoal,
			"updated_at":         next.UpdatedAt,
		})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "user stats changed concurrently"); err != nil {
			return err
		}
		next.Version = prev.Version + 1

		res = domainagg.CompleteSessionResult{Session: *session, Stats: next}
		return nil
	})
	if err != nil {
		return out, err
	}
	res.Attempts = attempts
	return res, nil
}
