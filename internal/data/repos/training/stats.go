package training

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

// UserStatsRepo reads and seeds the cached stats row. Updates go through the aggregate's
// version compare-and-swap, never through this repo.
type UserStatsRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error)
	// EnsureRow inserts a zero row at version 0 if none exists and returns the stored row.
	EnsureRow(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (r *userStatsRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.UserStats
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userStatsRepo) EnsureRow(dbc dbctx.Context, userID uuid.UUID) (*types.UserStats, error) {
	row := types.EmptyStats(userID)
	row.UpdatedAt = time.Now().UTC()
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID)
}

func (r *userStatsRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.UserStats{})
	return res.RowsAffected, res.Error
}
