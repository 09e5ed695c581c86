package nutrition

import (
	"github.com/shopspring/decimal"
)

// CalorieFloor is the minimum daily target the estimator will ever return.
const CalorieFloor = 1200

type Needs struct {
	BMR              int              `json:"bmr"`
	TDEE             int              `json:"tdee"`
	DailyCalories    int              `json:"daily_calories"`
	Proteins         int              `json:"proteins"`
	Carbs            int              `json:"carbs"`
	Fats             int              `json:"fats"`
	Recommendations  []string         `json:"recommendations"`
	MealDistribution MealDistribution `json:"meal_distribution"`
	MealPlan         []MealShare      `json:"meal_plan"`
}

// Goal converts the estimate into the macros stored as the user's goal.
func (n Needs) Goal() Macros {
	return Macros{
		Calories: n.DailyCalories,
		Proteins: float64(n.Proteins),
		Carbs:    float64(n.Carbs),
		Fats:     float64(n.Fats),
	}
}

var (
	kcalPerGramProtein = decimal.NewFromInt(4)
	kcalPerGramCarb    = decimal.NewFromInt(4)
	kcalPerGramFat     = decimal.NewFromInt(9)
)

// BMR is the Mifflin-St Jeor estimate truncated to an integer.
func BMR(g Gender, weightKg, heightCm, age decimal.Decimal) int64 {
	v := decimal.NewFromInt(10).Mul(weightKg).
		Add(decimal.RequireFromString("6.25").Mul(heightCm)).
		Sub(decimal.NewFromInt(5).Mul(age))
	if g == GenderFemale {
		v = v.Sub(decimal.NewFromInt(161))
	} else {
		v = v.Add(decimal.NewFromInt(5))
	}
	return v.IntPart()
}

func TDEE(bmr int64, a ActivityLevel) int64 {
	return decimal.NewFromInt(bmr).Mul(a.Multiplier()).IntPart()
}

func DailyCalories(tdee int64, g Goal) int64 {
	return max(CalorieFloor, tdee+g.Adjustment())
}

// MacroTargets splits daily calories by goal. Carbs take the remainder and never go negative.
func MacroTargets(daily int64, weightKg decimal.Decimal, g Goal) (protein, carbs, fat int64) {
	perKg, fatShare := g.MacroSplit()
	protein = weightKg.Mul(perKg).IntPart()
	dailyDec := decimal.NewFromInt(daily)
	fat = dailyDec.Mul(fatShare).Div(kcalPerGramFat).IntPart()
	rest := dailyDec.
		Sub(decimal.NewFromInt(protein).Mul(kcalPerGramProtein)).
		Sub(decimal.NewFromInt(fat).Mul(kcalPerGramFat))
	carbs = max(0, rest.Div(kcalPerGramCarb).IntPart())
	return protein, carbs, fat
}

// Estimate computes the recommended daily target for p. Any parse failure wraps
// ErrComputationFailed.
func Estimate(p BiometricProfile) (Needs, error) {
	m, err := parseMeasurements(p)
	if err != nil {
		return Needs{}, err
	}
	goal := ParseGoal(p.Goal)
	bmr := BMR(ParseGender(p.Gender), m.weightKg, m.heightCm, m.age)
	tdee := TDEE(bmr, ParseActivityLevel(p.ActivityLevel))
	daily := DailyCalories(tdee, goal)
	protein, carbs, fat := MacroTargets(daily, m.weightKg, goal)
	plan := SelectMealPlan(m.mealsCount, ParsePreFast(p.DoesSuhoor))
	dist := plan.Distribute(int(daily))

	return Needs{
		BMR:              int(bmr),
		TDEE:             int(tdee),
		DailyCalories:    int(daily),
		Proteins:         int(protein),
		Carbs:            int(carbs),
		Fats:             int(fat),
		Recommendations:  Recommendations(p),
		MealDistribution: dist,
		MealPlan:         []MealShare(dist),
	}, nil
}
