package nutrition

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseProfile() BiometricProfile {
	return BiometricProfile{
		Age:           "30",
		Height:        "165",
		CurrentWeight: "70",
		TargetWeight:  "62",
		Gender:        "female",
		ActivityLevel: "sedentary",
		Goal:          "maintain",
		DoesSuhoor:    "yes",
		MealsCount:    "3",
		Hydration:     "more_2l",
		SleepHours:    "more_7h",
	}
}

func TestEstimateReferenceProfile(t *testing.T) {
	needs, err := Estimate(baseProfile())
	require.NoError(t, err)

	assert.Equal(t, 1420, needs.BMR)
	assert.Equal(t, 1704, needs.TDEE)
	assert.Equal(t, 1704, needs.DailyCalories)
	assert.Equal(t, 105, needs.Proteins)
	assert.Equal(t, 56, needs.Fats)
	assert.Equal(t, 195, needs.Carbs)
}

func TestEstimateMaleMuscleGain(t *testing.T) {
	p := baseProfile()
	p.Gender = "homme"
	p.Age, p.Height, p.CurrentWeight = "30", "180", "80"
	p.ActivityLevel, p.Goal = "active", "muscle_gain"

	needs, err := Estimate(p)
	require.NoError(t, err)
	assert.Equal(t, 1780, needs.BMR)
	assert.Equal(t, 2759, needs.TDEE)
	assert.Equal(t, 3059, needs.DailyCalories)
	assert.Equal(t, 160, needs.Proteins)
	assert.Equal(t, 84, needs.Fats)
	assert.Equal(t, 415, needs.Carbs)
}

func TestEstimateCalorieFloor(t *testing.T) {
	p := baseProfile()
	p.Age, p.Height, p.CurrentWeight = "80", "140", "40"
	p.Goal = "weight_loss"

	needs, err := Estimate(p)
	require.NoError(t, err)
	assert.Equal(t, 714, needs.BMR)
	assert.Less(t, needs.TDEE-500, CalorieFloor)
	assert.Equal(t, CalorieFloor, needs.DailyCalories)
	assert.Equal(t, 72, needs.Proteins)
	assert.Equal(t, 33, needs.Fats)
	assert.Equal(t, 153, needs.Carbs)
}

func TestCalorieFloorNeverBypassed(t *testing.T) {
	for _, goal := range []Goal{GoalWeightLoss, GoalWellness, GoalMaintain, GoalMuscleGain, GoalOther} {
		for tdee := int64(0); tdee < 2000; tdee += 37 {
			assert.GreaterOrEqual(t, DailyCalories(tdee, goal), int64(CalorieFloor))
		}
	}
}

func TestUnknownVariantsUseDefaultArms(t *testing.T) {
	assert.Equal(t, ActivityLight, ParseActivityLevel("couch"))
	assert.Equal(t, "1.375", ParseActivityLevel("").Multiplier().String())
	assert.Equal(t, GoalOther, ParseGoal("toning"))
	assert.Equal(t, int64(0), ParseGoal("toning").Adjustment())
	assert.Equal(t, GenderFemale, ParseGender(" Femme "))
	assert.Equal(t, GenderMale, ParseGender("non-binary"))
	assert.Equal(t, PreFastNo, ParsePreFast("?"))
	assert.Equal(t, PreFastSometimes, ParsePreFast("parfois"))

	p := baseProfile()
	p.ActivityLevel, p.Goal = "unknown", "unknown"
	needs, err := Estimate(p)
	require.NoError(t, err)
	assert.Equal(t, 1952, needs.TDEE) // 1420 * 1.375
	assert.Equal(t, 1952, needs.DailyCalories)
}

func TestEstimateParsing(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BiometricProfile)
		ok     bool
	}{
		{name: "non numeric age", mutate: func(p *BiometricProfile) { p.Age = "trente" }},
		{name: "zero height", mutate: func(p *BiometricProfile) { p.Height = "0" }},
		{name: "missing weight", mutate: func(p *BiometricProfile) { p.CurrentWeight = "" }},
		{name: "zero meals", mutate: func(p *BiometricProfile) { p.MealsCount = "0" }},
		{name: "fractional meals", mutate: func(p *BiometricProfile) { p.MealsCount = "2.5" }},
		{name: "comma decimal weight", mutate: func(p *BiometricProfile) { p.CurrentWeight = "70,5" }, ok: true},
		{name: "empty meals defaults", mutate: func(p *BiometricProfile) { p.MealsCount = "" }, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := baseProfile()
			tc.mutate(&p)
			_, err := Estimate(p)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrComputationFailed))
		})
	}
}

func TestEmptyMealsCountUsesThreeMealPlan(t *testing.T) {
	p := baseProfile()
	p.MealsCount = ""
	needs, err := Estimate(p)
	require.NoError(t, err)
	assert.Len(t, needs.MealPlan, 3)
}

func TestMealDistributionTables(t *testing.T) {
	cases := []struct {
		meals int
		pf    PreFast
		want  []MealShare
	}{
		{1, PreFastYes, []MealShare{{"Iftar", 1800}}},
		{2, PreFastYes, []MealShare{{"Iftar", 1170}, {"Suhoor", 630}}},
		{2, PreFastSometimes, []MealShare{{"Iftar", 1080}, {"Collation", 720}}},
		{3, PreFastYes, []MealShare{{"Iftar", 810}, {"Collation", 450}, {"Suhoor", 540}}},
		{5, PreFastNo, []MealShare{{"Iftar", 900}, {"Collation 1", 450}, {"Collation 2", 450}}},
	}
	for _, tc := range cases {
		got := SelectMealPlan(tc.meals, tc.pf).Distribute(1800)
		assert.Equal(t, tc.want, []MealShare(got), "meals=%d prefast=%s", tc.meals, tc.pf)
	}
}

func TestMealDistributionFloors(t *testing.T) {
	got := PlanThreeWithSuhoor.Distribute(1705)
	assert.Equal(t, []MealShare{{"Iftar", 767}, {"Collation", 426}, {"Suhoor", 511}}, []MealShare(got))
}

func TestMealDistributionJSONKeepsOrder(t *testing.T) {
	raw, err := json.Marshal(PlanThreeWithoutSuhoor.Distribute(2000))
	require.NoError(t, err)
	assert.Equal(t, `{"Iftar":1000,"Collation 1":500,"Collation 2":500}`, string(raw))
}
