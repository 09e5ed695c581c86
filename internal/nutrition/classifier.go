package nutrition

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	types "github.com/yungbote/amelfit-backend/internal/domain"
)

// FallbackMarker prefixes the analysis text of every fallback estimate.
const FallbackMarker = "Automatic estimate:"

var ErrUnparseableClassification = errors.New("meal classification could not be parsed")

type Classification struct {
	Foods    []types.FoodItem
	Analysis string
	Fallback bool
}

type classificationPayload struct {
	Foods    []payloadFood `json:"foods"`
	Analysis string        `json:"analysis"`
}

// payloadFood mirrors types.FoodItem but accepts the loose shapes the model emits:
// fractional calories, numeric quantities and quoted numbers.
type payloadFood struct {
	Name     string     `json:"name"`
	Quantity looseText  `json:"quantity"`
	Calories looseFloat `json:"calories"`
	Proteins looseFloat `json:"proteins"`
	Carbs    looseFloat `json:"carbs"`
	Fats     looseFloat `json:"fats"`
}

type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return err
	}
	*f = looseFloat(v)
	return nil
}

type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = looseText(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*t = looseText(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	if string(bytes.TrimSpace(b)) == "null" {
		*t = ""
		return nil
	}
	return errors.New("quantity must be a string or a number")
}

// ParseClassification decodes the first JSON object in raw, tolerating markdown fences and
// surrounding prose. An empty food list is treated as unparseable.
func ParseClassification(raw string) (Classification, error) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return Classification{}, ErrUnparseableClassification
	}
	var payload classificationPayload
	if err := json.NewDecoder(bytes.NewReader([]byte(raw[start:]))).Decode(&payload); err != nil {
		return Classification{}, errors.Join(ErrUnparseableClassification, err)
	}
	foods := make([]types.FoodItem, 0, len(payload.Foods))
	for _, f := range payload.Foods {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		foods = append(foods, types.FoodItem{
			Name:     name,
			Quantity: strings.TrimSpace(string(f.Quantity)),
			Calories: clampCalories(float64(f.Calories)),
			Proteins: clampMacro(float64(f.Proteins)),
			Carbs:    clampMacro(float64(f.Carbs)),
			Fats:     clampMacro(float64(f.Fats)),
		})
	}
	if len(foods) == 0 {
		return Classification{}, ErrUnparseableClassification
	}
	return Classification{Foods: foods, Analysis: strings.TrimSpace(payload.Analysis)}, nil
}

func clampCalories(v float64) int {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func clampMacro(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return round1(v)
}

// FallbackClassification is the fixed estimate used when the classifier fails.
func FallbackClassification() Classification {
	return Classification{
		Foods: []types.FoodItem{{
			Name:     "unidentified meal",
			Quantity: "1 portion",
			Calories: 400,
			Proteins: 15,
			Carbs:    50,
			Fats:     15,
		}},
		Analysis: FallbackMarker + " the meal could not be analysed precisely, values are an average portion.",
		Fallback: true,
	}
}

const (
	MealTypeBreakfast = "petit-dejeuner"
	MealTypeLunch     = "dejeuner"
	MealTypeSnack     = "collation"
	MealTypeDinner    = "diner"
)

// MealTypeForHour picks the default meal type from a UTC hour of day.
func MealTypeForHour(hour int) string {
	switch {
	case hour < 10:
		return MealTypeBreakfast
	case hour < 14:
		return MealTypeLunch
	case hour < 18:
		return MealTypeSnack
	default:
		return MealTypeDinner
	}
}
