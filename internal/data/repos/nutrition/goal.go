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

type NutritionGoalRepo interface {
	// Get returns nil without error when the user has no goal row yet.
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.NutritionGoal, error)
	// GetOrCreate inserts def when no row exists and returns whatever row is stored afterwards.
	GetOrCreate(dbc dbctx.Context, def *types.NutritionGoal) (*types.NutritionGoal, error)
	// Upsert overwrites every macro field. Last write wins.
	Upsert(dbc dbctx.Context, goal *types.NutritionGoal) (*types.NutritionGoal, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type nutritionGoalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNutritionGoalRepo(db *gorm.DB, baseLog *logger.Logger) NutritionGoalRepo {
	return &nutritionGoalRepo{db: db, log: baseLog.With("repo", "NutritionGoalRepo")}
}

func (r *nutritionGoalRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.NutritionGoal, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.NutritionGoal
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

func (r *nutritionGoalRepo) GetOrCreate(dbc dbctx.Context, def *types.NutritionGoal) (*types.NutritionGoal, error) {
	if def == nil || def.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if def.UpdatedAt.IsZero() {
		def.UpdatedAt = time.Now().UTC()
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(def).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, def.UserID)
}

func (r *nutritionGoalRepo) Upsert(dbc dbctx.Context, goal *types.NutritionGoal) (*types.NutritionGoal, error) {
	if goal == nil || goal.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	goal.UpdatedAt = time.Now().UTC()
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"calories", "proteins", "carbs", "fats", "updated_at"}),
		}).
		Create(goal).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *nutritionGoalRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.NutritionGoal{})
	return res.RowsAffected, res.Error
}
