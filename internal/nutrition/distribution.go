package nutrition

import (
	"bytes"
	"encoding/json"
)

type MealPlan int

const (
	PlanSingle MealPlan = iota
	PlanTwoWithSuhoor
	PlanTwoWithoutSuhoor
	PlanThreeWithSuhoor
	PlanThreeWithoutSuhoor
)

// SelectMealPlan maps a meal count and pre-fast habit to one of the five split tables.
// Only PreFastYes counts as taking the pre-fast meal.
func SelectMealPlan(mealsCount int, pf PreFast) MealPlan {
	suhoor := pf == PreFastYes
	switch {
	case mealsCount <= 1:
		return PlanSingle
	case mealsCount == 2 && suhoor:
		return PlanTwoWithSuhoor
	case mealsCount == 2:
		return PlanTwoWithoutSuhoor
	case suhoor:
		return PlanThreeWithSuhoor
	default:
		return PlanThreeWithoutSuhoor
	}
}

type mealSplit struct {
	label   string
	percent int
}

func (p MealPlan) splits() []mealSplit {
	switch p {
	case PlanSingle:
		return []mealSplit{{"Iftar", 100}}
	case PlanTwoWithSuhoor:
		return []mealSplit{{"Iftar", 65}, {"Suhoor", 35}}
	case PlanTwoWithoutSuhoor:
		return []mealSplit{{"Iftar", 60}, {"Collation", 40}}
	case PlanThreeWithSuhoor:
		return []mealSplit{{"Iftar", 45}, {"Collation", 25}, {"Suhoor", 30}}
	default:
		return []mealSplit{{"Iftar", 50}, {"Collation 1", 25}, {"Collation 2", 25}}
	}
}

type MealShare struct {
	Label    string `json:"label"`
	Calories int    `json:"calories"`
}

// Distribute applies the plan's percentages to daily calories, flooring each share.
func (p MealPlan) Distribute(daily int) MealDistribution {
	splits := p.splits()
	out := make(MealDistribution, 0, len(splits))
	for _, s := range splits {
		out = append(out, MealShare{Label: s.label, Calories: daily * s.percent / 100})
	}
	return out
}

// MealDistribution marshals as a JSON object whose keys keep plan order.
type MealDistribution []MealShare

func (d MealDistribution) Get(label string) (int, bool) {
	for _, s := range d {
		if s.Label == label {
			return s.Calories, true
		}
	}
	return 0, false
}

func (d MealDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, _ := json.Marshal(s.Calories)
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
