package nutrition

import (
	"errors"
	"strings"
	"time"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
)

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

type DailySummary struct {
	Date       string `json:"date"`
	MealsCount int    `json:"meals_count"`
	Consumed   Macros `json:"consumed"`
	Goal       Macros `json:"goal"`
	Remaining  Macros `json:"remaining"`
}

// ResolveDay returns the inclusive UTC bounds of raw, or of today on c when raw is empty.
func ResolveDay(raw string, c clock.Clock) (date string, start, end time.Time, err error) {
	date = strings.TrimSpace(raw)
	if date == "" {
		date = clock.Today(c)
	}
	start, end, err = clock.DayBounds(date)
	if err != nil {
		return "", time.Time{}, time.Time{}, ErrInvalidDate
	}
	return date, start, end, nil
}

// Summarize folds one day's meals against the goal snapshot. Meals outside [start, end]
// are ignored, so callers may pass a superset.
func Summarize(date string, start, end time.Time, meals []*types.MealEntry, goal Macros) DailySummary {
	var consumed Macros
	count := 0
	for _, m := range meals {
		if m == nil || m.CreatedAt.Before(start) || m.CreatedAt.After(end) {
			continue
		}
		count++
		consumed.Calories += m.TotalCalories
		consumed.Proteins += m.TotalProteins
		consumed.Carbs += m.TotalCarbs
		consumed.Fats += m.TotalFats
	}
	consumed.Proteins = round1(consumed.Proteins)
	consumed.Carbs = round1(consumed.Carbs)
	consumed.Fats = round1(consumed.Fats)

	return DailySummary{
		Date:       date,
		MealsCount: count,
		Consumed:   consumed,
		Goal:       goal,
		Remaining:  Remaining(goal, consumed),
	}
}
