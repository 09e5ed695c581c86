package nutrition

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

type NutritionProfileRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.NutritionProfile, error)
	Upsert(dbc dbctx.Context, profile *types.NutritionProfile) (*types.NutritionProfile, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type nutritionProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNutritionProfileRepo(db *gorm.DB, baseLog *logger.Logger) NutritionProfileRepo {
	return &nutritionProfileRepo{db: db, log: baseLog.With("repo", "NutritionProfileRepo")}
}

func (r *nutritionProfileRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.NutritionProfile, error) {
	var out []*types.NutritionProfile
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

func (r *nutritionProfileRepo) Upsert(dbc dbctx.Context, profile *types.NutritionProfile) (*types.NutritionProfile, error) {
	if profile == nil || profile.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	profile.UpdatedAt = time.Now().UTC()
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"input", "result", "updated_at"}),
		}).
		Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *nutritionProfileRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.NutritionProfile{})
	return res.RowsAffected, res.Error
}
