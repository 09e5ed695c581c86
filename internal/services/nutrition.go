package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/nutrition"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type AnalyzeMealInput struct {
	ImageBase64 string `json:"image_base64"`
	Description string `json:"description"`
	MealType    string `json:"meal_type"`
}

type NutritionService interface {
	GetGoal(ctx context.Context) (*types.NutritionGoal, error)
	UpdateGoal(ctx context.Context, patch types.GoalPatch) (*types.NutritionGoal, error)
	DailySummary(ctx context.Context, date string) (nutrition.DailySummary, error)
	MealHistory(ctx context.Context, limit int) ([]*types.MealEntry, error)
	DeleteMeal(ctx context.Context, mealID uuid.UUID) error
	AnalyzeMeal(ctx context.Context, in AnalyzeMealInput) (*types.MealEntry, error)
	CalculateNeeds(ctx context.Context, profile nutrition.BiometricProfile) (nutrition.Needs, error)
}

type NutritionServiceDeps struct {
	Users    repos.UserRepo
	Goals    repos.NutritionGoalRepo
	Meals    repos.MealEntryRepo
	Plan     domainagg.NutritionPlanAggregate
	Analyzer MealAnalyzer
	Clock    clock.Clock
	Metrics  *observability.Metrics
}

type nutritionService struct {
	log  *logger.Logger
	deps NutritionServiceDeps
}

func NewNutritionService(log *logger.Logger, deps NutritionServiceDeps) NutritionService {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	return &nutritionService{
		log:  log.With("service", "NutritionService"),
		deps: deps,
	}
}

var errUserNotFound = apierr.NotFound("user_not_found", "user not found")

func (s *nutritionService) currentUser(ctx context.Context) (uuid.UUID, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	u, err := s.deps.Users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return uuid.Nil, storageError(s.log, "load_user", err)
	}
	if u == nil {
		return uuid.Nil, errUserNotFound
	}
	return userID, nil
}

func defaultGoalRow(userID uuid.UUID) *types.NutritionGoal {
	d := nutrition.DefaultGoal()
	return &types.NutritionGoal{
		UserID:   userID,
		Calories: d.Calories,
		Proteins: d.Proteins,
		Carbs:    d.Carbs,
		Fats:     d.Fats,
	}
}

func (s *nutritionService) GetGoal(ctx context.Context) (*types.NutritionGoal, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	goal, err := s.deps.Goals.GetOrCreate(dbctx.Context{Ctx: ctx}, defaultGoalRow(userID))
	if err != nil {
		return nil, storageError(s.log, "get_goal", err)
	}
	return goal, nil
}

func (s *nutritionService) UpdateGoal(ctx context.Context, patch types.GoalPatch) (*types.NutritionGoal, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	current, err := s.deps.Goals.GetOrCreate(dbc, defaultGoalRow(userID))
	if err != nil {
		return nil, storageError(s.log, "update_goal", err)
	}
	next := current.Apply(patch)
	if err := nutrition.ValidateGoal(nutrition.GoalMacros(&next)); err != nil {
		return nil, apierr.BadRequest("invalid_goal", err.Error())
	}
	saved, err := s.deps.Goals.Upsert(dbc, &next)
	if err != nil {
		return nil, storageError(s.log, "update_goal", err)
	}
	return saved, nil
}

func (s *nutritionService) DailySummary(ctx context.Context, date string) (nutrition.DailySummary, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nutrition.DailySummary{}, err
	}
	day, start, end, err := nutrition.ResolveDay(date, s.deps.Clock)
	if err != nil {
		return nutrition.DailySummary{}, apierr.BadRequest("invalid_date", err.Error())
	}

	var (
		goal  *types.NutritionGoal
		meals []*types.MealEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goal, err = s.deps.Goals.Get(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		meals, err = s.deps.Meals.ListBetween(dbctx.Context{Ctx: gctx}, userID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nutrition.DailySummary{}, storageError(s.log, "daily_summary", err)
	}
	return nutrition.Summarize(day, start, end, meals, nutrition.GoalMacros(goal)), nil
}

func (s *nutritionService) MealHistory(ctx context.Context, limit int) ([]*types.MealEntry, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.deps.Meals.ListRecent(dbctx.Context{Ctx: ctx}, userID, limit)
	if err != nil {
		return nil, storageError(s.log, "meal_history", err)
	}
	if out == nil {
		out = []*types.MealEntry{}
	}
	return out, nil
}

func (s *nutritionService) DeleteMeal(ctx context.Context, mealID uuid.UUID) error {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return err
	}
	deleted, err := s.deps.Meals.DeleteOwned(dbctx.Context{Ctx: ctx}, userID, mealID)
	if err != nil {
		return storageError(s.log, "delete_meal", err)
	}
	if !deleted {
		return apierr.NotFound("meal_not_found", "meal not found")
	}
	return nil
}

func (s *nutritionService) AnalyzeMeal(ctx context.Context, in AnalyzeMealInput) (*types.MealEntry, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ImageBase64) == "" && strings.TrimSpace(in.Description) == "" {
		return nil, apierr.BadRequest("invalid_request", "image_base64 or description is required")
	}
	now := s.deps.Clock.Now().UTC()
	mealType := strings.TrimSpace(in.MealType)
	if mealType == "" {
		mealType = nutrition.MealTypeForHour(now.Hour())
	}

	result := s.deps.Analyzer.Analyze(ctx, MealInput{
		ImageBase64: in.ImageBase64,
		Description: in.Description,
		MealType:    mealType,
	})
	entry, err := types.NewMealEntry(userID, result.Foods, mealType, result.Analysis, now)
	if err != nil {
		return nil, storageError(s.log, "analyze_meal", err)
	}
	created, err := s.deps.Meals.Create(dbctx.Context{Ctx: ctx}, []*types.MealEntry{entry})
	if err != nil {
		return nil, storageError(s.log, "analyze_meal", err)
	}
	source := "classifier"
	if result.Fallback {
		source = "fallback"
	}
	s.deps.Metrics.IncMealLogged(source)
	if len(created) > 0 && created[0] != nil {
		return created[0], nil
	}
	return entry, nil
}

func (s *nutritionService) CalculateNeeds(ctx context.Context, profile nutrition.BiometricProfile) (nutrition.Needs, error) {
	userID, err := s.currentUser(ctx)
	if err != nil {
		return nutrition.Needs{}, err
	}
	needs, err := nutrition.Estimate(profile)
	if err != nil {
		if !errors.Is(err, nutrition.ErrComputationFailed) {
			err = errors.Join(nutrition.ErrComputationFailed, err)
		}
		return nutrition.Needs{}, apierr.New(http.StatusBadRequest, "computation_failed", err)
	}

	input, err := json.Marshal(profile)
	if err != nil {
		return nutrition.Needs{}, storageError(s.log, "calculate_needs", err)
	}
	result, err := json.Marshal(needs)
	if err != nil {
		return nutrition.Needs{}, storageError(s.log, "calculate_needs", err)
	}
	goal := needs.Goal()
	if _, err := s.deps.Plan.SavePlan(ctx, domainagg.SavePlanInput{
		UserID: userID,
		Profile: types.NutritionProfile{
			Input:  datatypes.JSON(input),
			Result: datatypes.JSON(result),
		},
		Goal: types.NutritionGoal{
			Calories: goal.Calories,
			Proteins: goal.Proteins,
			Carbs:    goal.Carbs,
			Fats:     goal.Fats,
		},
	}); err != nil {
		return nutrition.Needs{}, aggregateError(s.log, "calculate_needs", err)
	}
	return needs, nil
}
