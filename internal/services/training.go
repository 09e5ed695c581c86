package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/training"
)

type CompleteSessionRequest struct {
	WeekID          int `json:"week_id"`
	SeanceID        int `json:"seance_id"`
	Steps           int `json:"steps"`
	DurationMinutes int `json:"duration_minutes"`
	PhasesCompleted int `json:"phases_completed"`
}

type CompleteSessionResponse struct {
	Session types.SessionRecord `json:"session"`
	Stats   types.UserStats     `json:"stats"`
}

type TrainingService interface {
	CompleteSession(ctx context.Context, req CompleteSessionRequest) (CompleteSessionResponse, error)
	GetStats(ctx context.Context) (types.UserStats, error)
	ListSessions(ctx context.Context, limit int) ([]*types.SessionRecord, error)
	WeeklyActivity(ctx context.Context) ([]training.DayActivity, error)
	// VerifyStats replays the ledger of any user. Admin only.
	VerifyStats(ctx context.Context, userID uuid.UUID) (training.Verification, error)
}

type TrainingServiceDeps struct {
	Users    repos.UserRepo
	Sessions repos.SessionRecordRepo
	Stats    repos.UserStatsRepo
	Agg      domainagg.UserStatsAggregate
	Clock    clock.Clock
	Metrics  *observability.Metrics
}

type trainingService struct {
	log  *logger.Logger
	deps TrainingServiceDeps
}

func NewTrainingService(log *logger.Logger, deps TrainingServiceDeps) TrainingService {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	return &trainingService{
		log:  log.With("service", "TrainingService"),
		deps: deps,
	}
}

func (s *trainingService) loadUser(ctx context.Context, userID uuid.UUID) error {
	u, err := s.deps.Users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return storageError(s.log, "load_user", err)
	}
	if u == nil {
		return errUserNotFound
	}
	return nil
}

func (s *trainingService) currentUser(ctx context.Context) (uuid.UUID, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return userID, s.loadUser(ctx, userID)
}

func (s *trainingService) CompleteSession(ctx context.Context, req CompleteSessionRequest) (CompleteSessionResponse, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return CompleteSessionResponse{}, err
	}
	res, err := s.deps.Agg.CompleteSession(ctx, domainagg.CompleteSessionInput{
		UserID:          userID,
		WeekID:          req.WeekID,
		SeanceID:        req.SeanceID,
		Steps:           req.Steps,
		DurationMinutes: req.DurationMinutes,
		PhasesCompleted: req.PhasesCompleted,
		CompletedAt:     s.deps.Clock.Now().UTC(),
	})
	if err != nil {
		return CompleteSessionResponse{}, aggregateError(s.log, "complete_session", err)
	}
	if res.Attempts > 1 {
		s.log.Info("session completed after retry", "user_id", userID, "attempts", res.Attempts)
	}
	s.deps.Metrics.IncSessionCompleted()
	return CompleteSessionResponse{Session: res.Session, Stats: res.Stats}, nil
}

func (s *trainingService) GetStats(ctx context.Context) (types.UserStats, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return types.UserStats{}, err
	}
	stats, err := s.deps.Stats.Get(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return types.UserStats{}, storageError(s.log, "get_stats", err)
	}
	if stats == nil {
		return types.EmptyStats(userID), nil
	}
	if stats.WeeklyGoal == 0 {
		stats.WeeklyGoal = types.DefaultWeeklyGoal
	}
	return *stats, nil
}

func (s *trainingService) ListSessions(ctx context.Context, limit int) ([]*types.SessionRecord, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.deps.Sessions.ListRecent(dbctx.Context{Ctx: ctx}, userID, limit)
	if err != nil {
		return nil, storageError(s.log, "list_sessions", err)
	}
	if out == nil {
		out = []*types.SessionRecord{}
	}
	return out, nil
}

func (s *trainingService) WeeklyActivity(ctx context.Context) ([]training.DayActivity, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	now := s.deps.Clock.Now().UTC()
	start, end := training.WeekBounds(now)
	sessions, err := s.deps.Sessions.ListBetween(dbctx.Context{Ctx: ctx}, userID, start, end)
	if err != nil {
		return nil, storageError(s.log, "weekly_activity", err)
	}
	return training.WeeklyActivity(now, sessions), nil
}

func (s *trainingService) VerifyStats(ctx context.Context, userID uuid.UUID) (training.Verification, error) {
	if userID == uuid.Nil {
		return training.Verification{}, apierr.BadRequest("invalid_user_id", "user id is required")
	}
	if err := s.loadUser(ctx, userID); err != nil {
		return training.Verification{}, err
	}

	var (
		cached   *types.UserStats
		sessions []*types.SessionRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cached, err = s.deps.Stats.Get(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.deps.Sessions.ListAll(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return training.Verification{}, storageError(s.log, "verify_stats", err)
	}
	base := types.EmptyStats(userID)
	if cached != nil {
		base = *cached
	}
	v := training.Verify(base, sessions)
	if !v.Consistent {
		s.log.Warn("cached stats drifted from ledger", "user_id", userID, "sessions", v.Sessions)
	}
	return v, nil
}
