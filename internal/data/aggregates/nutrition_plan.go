package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

type NutritionPlanAggregateDeps struct {
	Base BaseDeps

	Profiles repos.NutritionProfileRepo
	Goals    repos.NutritionGoalRepo
}

type nutritionPlanAggregate struct {
	deps NutritionPlanAggregateDeps
}

func NewNutritionPlanAggregate(deps NutritionPlanAggregateDeps) domainagg.NutritionPlanAggregate {
	deps.Base = deps.Base.withDefaults()
	return &nutritionPlanAggregate{deps: deps}
}

func (a *nutritionPlanAggregate) Contract() domainagg.Contract {
	return domainagg.NutritionPlanAggregateContract
}

// SavePlan overwrites the profile snapshot and the goal in one transaction. Either both rows
// change or neither does.
func (a *nutritionPlanAggregate) SavePlan(ctx context.Context, in domainagg.SavePlanInput) (types.NutritionGoal, error) {
	const op = "Nutrition.NutritionPlan.SavePlan"
	var out types.NutritionGoal

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.Goal.Calories <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "calories must be greater than 0", nil)
	}
	if in.Goal.Proteins < 0 || in.Goal.Carbs < 0 || in.Goal.Fats < 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "macros must not be negative", nil)
	}
	if a.deps.Profiles == nil || a.deps.Goals == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "nutrition plan repos not configured", nil)
	}

	profile := in.Profile
	profile.UserID = in.UserID
	goal := in.Goal
	goal.UserID = in.UserID

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if _, err := a.deps.Profiles.Upsert(dbc, &profile); err != nil {
			return err
		}
		saved, err := a.deps.Goals.Upsert(dbc, &goal)
		if err != nil {
			return err
		}
		out = *saved
		return nil
	})
	return out, err
}
