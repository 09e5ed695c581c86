package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/domain/nutrition"
)

var NutritionPlanAggregateContract = Contract{
	Name:             "Nutrition.NutritionPlanAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyTableRepoQueries,
	Tables:           []string{"nutrition_profile", "nutrition_goal"},
	Notes:            "Overwrites the stored biometric profile and the nutrition goal together.",
}

type NutritionPlanAggregate interface {
	Aggregate

	SavePlan(ctx context.Context, in SavePlanInput) (nutrition.NutritionGoal, error)
}

type SavePlanInput struct {
	UserID  uuid.UUID
	Profile nutrition.NutritionProfile
	Goal    nutrition.NutritionGoal
}
