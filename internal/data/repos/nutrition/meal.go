package nutrition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type MealEntryRepo interface {
	Create(dbc dbctx.Context, entries []*types.MealEntry) ([]*types.MealEntry, error)
	// ListBetween returns the user's meals with created_at in [start, end], oldest first.
	ListBetween(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) ([]*types.MealEntry, error)
	// ListRecent returns newest first. limit is clamped to [1, MaxHistoryLimit].
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.MealEntry, error)
	// DeleteOwned removes the entry only when it belongs to userID.
	DeleteOwned(dbc dbctx.Context, userID, mealID uuid.UUID) (bool, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type mealEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMealEntryRepo(db *gorm.DB, baseLog *logger.Logger) MealEntryRepo {
	return &mealEntryRepo{db: db, log: baseLog.With("repo", "MealEntryRepo")}
}

// ClampHistoryLimit maps a requested page size onto [1, MaxHistoryLimit]; zero means default.
func ClampHistoryLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultHistoryLimit
	case limit < 1:
		return 1
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}

func (r *mealEntryRepo) Create(dbc dbctx.Context, entries []*types.MealEntry) ([]*types.MealEntry, error) {
	if len(entries) == 0 {
		return []*types.MealEntry{}, nil
	}
	if err := dbc.DB(r.db).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mealEntryRepo) ListBetween(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) ([]*types.MealEntry, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.MealEntry
	if err := dbc.DB(r.db).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, start.UTC(), end.UTC()).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mealEntryRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.MealEntry, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.MealEntry
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(ClampHistoryLimit(limit)).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mealEntryRepo) DeleteOwned(dbc dbctx.Context, userID, mealID uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&types.MealEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *mealEntryRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.MealEntry{})
	return res.RowsAffected, res.Error
}
