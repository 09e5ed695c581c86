package nutrition

import (
	"errors"
	"math"

	types "github.com/yungbote/amelfit-backend/internal/domain"
)

// Macros is a calorie/macronutrient tuple in kcal and grams.
type Macros struct {
	Calories int     `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// DefaultGoal returns a fresh default target on every call.
func DefaultGoal() Macros {
	return Macros{Calories: 2000, Proteins: 50, Carbs: 250, Fats: 65}
}

func GoalMacros(g *types.NutritionGoal) Macros {
	if g == nil {
		return DefaultGoal()
	}
	return Macros{Calories: g.Calories, Proteins: g.Proteins, Carbs: g.Carbs, Fats: g.Fats}
}

var (
	ErrInvalidCalories = errors.New("calories must be greater than 0")
	ErrNegativeMacro   = errors.New("macros must not be negative")
)

func ValidateGoal(m Macros) error {
	if m.Calories <= 0 {
		return ErrInvalidCalories
	}
	for _, v := range []float64{m.Proteins, m.Carbs, m.Fats} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNegativeMacro
		}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Remaining is max(0, goal-consumed) per field.
func Remaining(goal, consumed Macros) Macros {
	return Macros{
		Calories: max(0, goal.Calories-consumed.Calories),
		Proteins: round1(math.Max(0, goal.Proteins-consumed.Proteins)),
		Carbs:    round1(math.Max(0, goal.Carbs-consumed.Carbs)),
		Fats:     round1(math.Max(0, goal.Fats-consumed.Fats)),
	}
}
