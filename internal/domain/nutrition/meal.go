package nutrition

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FoodItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Calories int     `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// MealEntry is an append-only ledger row. Totals are the sums over Foods.
type MealEntry struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_meal_entry_user_created,priority:1" json:"user_id"`
	Foods         datatypes.JSON `gorm:"column:foods;type:jsonb;not null" json:"foods"`
	TotalCalories int            `gorm:"not null;column:total_calories" json:"total_calories"`
	TotalProteins float64        `gorm:"not null;column:total_proteins" json:"total_proteins"`
	TotalCarbs    float64        `gorm:"not null;column:total_carbs" json:"total_carbs"`
	TotalFats     float64        `gorm:"not null;column:total_fats" json:"total_fats"`
	MealType      string         `gorm:"not null;column:meal_type" json:"meal_type"`
	AnalysisText  string         `gorm:"column:analysis_text" json:"analysis_text"`
	CreatedAt     time.Time      `gorm:"not null;default:now();index:idx_meal_entry_user_created,priority:2" json:"created_at"`
}

func (MealEntry) TableName() string { return "meal_entry" }

// NewMealEntry builds an entry with totals derived from foods.
func NewMealEntry(userID uuid.UUID, foods []FoodItem, mealType, analysis string, at time.Time) (*MealEntry, error) {
	if foods == nil {
		foods = []FoodItem{}
	}
	raw, err := json.Marshal(foods)
	if err != nil {
		return nil, err
	}
	e := &MealEntry{
		ID:           uuid.New(),
		UserID:       userID,
		Foods:        datatypes.JSON(raw),
		MealType:     mealType,
		AnalysisText: analysis,
		CreatedAt:    at,
	}
	for _, f := range foods {
		e.TotalCalories += f.Calories
		e.TotalProteins += f.Proteins
		e.TotalCarbs += f.Carbs
		e.TotalFats += f.Fats
	}
	return e, nil
}

func (e *MealEntry) FoodItems() ([]FoodItem, error) {
	var out []FoodItem
	if e == nil || len(e.Foods) == 0 {
		return out, nil
	}
	err := json.Unmarshal(e.Foods, &out)
	return out, err
}
