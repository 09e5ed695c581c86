package nutrition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrComputationFailed wraps every profile parsing failure.
var ErrComputationFailed = errors.New("computation failed")

// BiometricProfile is the questionnaire as sent by the client. Numbers arrive as strings.
type BiometricProfile struct {
	Age             string   `json:"age"`
	Height          string   `json:"height"`
	CurrentWeight   string   `json:"current_weight"`
	TargetWeight    string   `json:"target_weight"`
	Gender          string   `json:"gender"`
	ActivityLevel   string   `json:"activity_level"`
	Goal            string   `json:"goal"`
	DoesSuhoor      string   `json:"does_suhoor"`
	MealsCount      string   `json:"meals_count"`
	EatingHabits    []string `json:"eating_habits"`
	Hydration       string   `json:"hydration"`
	SleepHours      string   `json:"sleep_hours"`
	RamadanFeelings []string `json:"ramadan_feelings"`
}

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

func ParseActivityLevel(raw string) ActivityLevel {
	switch a := ActivityLevel(normalize(raw)); a {
	case ActivitySedentary, ActivityLight, ActivityActive, ActivityVeryActive:
		return a
	default:
		return ActivityLight
	}
}

func (a ActivityLevel) Multiplier() decimal.Decimal {
	switch a {
	case ActivitySedentary:
		return decimal.RequireFromString("1.2")
	case ActivityActive:
		return decimal.RequireFromString("1.55")
	case ActivityVeryActive:
		return decimal.RequireFromString("1.725")
	default:
		return decimal.RequireFromString("1.375")
	}
}

type Goal string

const (
	GoalWeightLoss Goal = "weight_loss"
	GoalMaintain   Goal = "maintain"
	GoalMuscleGain Goal = "muscle_gain"
	GoalWellness   Goal = "wellness"
	// GoalOther covers unrecognized goals: no adjustment, default macro split.
	GoalOther Goal = "other"
)

func ParseGoal(raw string) Goal {
	switch g := Goal(normalize(raw)); g {
	case GoalWeightLoss, GoalMaintain, GoalMuscleGain, GoalWellness:
		return g
	default:
		return GoalOther
	}
}

func (g Goal) Adjustment() int64 {
	switch g {
	case GoalWeightLoss:
		return -500
	case GoalMuscleGain:
		return 300
	case GoalWellness:
		return -200
	default:
		return 0
	}
}

// MacroSplit returns protein grams per kg of body weight and the fat share of calories.
func (g Goal) MacroSplit() (proteinPerKg, fatShare decimal.Decimal) {
	switch g {
	case GoalWeightLoss:
		return decimal.RequireFromString("1.8"), decimal.RequireFromString("0.25")
	case GoalMuscleGain:
		return decimal.RequireFromString("2.0"), decimal.RequireFromString("0.25")
	default:
		return decimal.RequireFromString("1.5"), decimal.RequireFromString("0.30")
	}
}

type Gender int

const (
	GenderMale Gender = iota
	GenderFemale
)

func ParseGender(raw string) Gender {
	switch normalize(raw) {
	case "femme", "female", "f", "woman":
		return GenderFemale
	default:
		return GenderMale
	}
}

type PreFast string

const (
	PreFastYes       PreFast = "yes"
	PreFastSometimes PreFast = "sometimes"
	PreFastNo        PreFast = "no"
)

func ParsePreFast(raw string) PreFast {
	switch p := PreFast(normalize(raw)); p {
	case PreFastYes, PreFastSometimes:
		return p
	case "oui":
		return PreFastYes
	case "parfois":
		return PreFastSometimes
	default:
		return PreFastNo
	}
}

// measurements are the parsed numeric inputs of a profile.
type measurements struct {
	age        decimal.Decimal
	heightCm   decimal.Decimal
	weightKg   decimal.Decimal
	mealsCount int
}

func parseMeasurements(p BiometricProfile) (measurements, error) {
	var m measurements
	var err error
	if m.age, err = parsePositive("age", p.Age); err != nil {
		return m, err
	}
	if m.heightCm, err = parsePositive("height", p.Height); err != nil {
		return m, err
	}
	if m.weightKg, err = parsePositive("current_weight", p.CurrentWeight); err != nil {
		return m, err
	}
	m.mealsCount = 3
	if raw := strings.TrimSpace(p.MealsCount); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			return m, fmt.Errorf("%w: meals_count %q is not a positive integer", ErrComputationFailed, raw)
		}
		m.mealsCount = n
	}
	return m, nil
}

// parsePositive accepts "65.5" and the French "65,5".
func parsePositive(field, raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a positive number", ErrComputationFailed, field, raw)
	}
	return d, nil
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
