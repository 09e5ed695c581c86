package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/http/response"
	"github.com/yungbote/amelfit-backend/internal/nutrition"
	"github.com/yungbote/amelfit-backend/internal/services"
)

type NutritionHandler struct {
	nutrition services.NutritionService
}

func NewNutritionHandler(nutritionService services.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutrition: nutritionService}
}

// GET /api/calories/today?date=YYYY-MM-DD
func (nh *NutritionHandler) Today(c *gin.Context) {
	s, err := nh.nutrition.DailySummary(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, s)
}

// GET /api/calories/history?limit=20
func (nh *NutritionHandler) History(c *gin.Context) {
	meals, err := nh.nutrition.MealHistory(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, meals)
}

// GET /api/calories/goal
func (nh *NutritionHandler) GetGoal(c *gin.Context) {
	g, err := nh.nutrition.GetGoal(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, g)
}

// PUT /api/calories/goal
func (nh *NutritionHandler) UpdateGoal(c *gin.Context) {
	var req types.GoalPatch
	if !bindJSON(c, &req) {
		return
	}
	g, err := nh.nutrition.UpdateGoal(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, g)
}

// POST /api/calories/analyze
// body: { "image_base64": "...", "description": "...", "meal_type": "..." }
func (nh *NutritionHandler) Analyze(c *gin.Context) {
	var req services.AnalyzeMealInput
	if !bindJSON(c, &req) {
		return
	}
	entry, err := nh.nutrition.AnalyzeMeal(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, entry)
}

// DELETE /api/calories/meals/:id
func (nh *NutritionHandler) DeleteMeal(c *gin.Context) {
	id, ok := uuidParam(c, "id", "meal_not_found")
	if !ok {
		return
	}
	if err := nh.nutrition.DeleteMeal(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Meal deleted"})
}

// POST /api/calories/calculate-needs
func (nh *NutritionHandler) CalculateNeeds(c *gin.Context) {
	var req nutrition.BiometricProfile
	if !bindJSON(c, &req) {
		return
	}
	needs, err := nh.nutrition.CalculateNeeds(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, needs)
}
