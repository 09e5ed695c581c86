package nutrition

import (
	"time"

	"github.com/google/uuid"
)

type NutritionGoal struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Calories  int       `gorm:"not null;column:calories" json:"calories"`
	Proteins  float64   `gorm:"not null;column:proteins" json:"proteins"`
	Carbs     float64   `gorm:"not null;column:carbs" json:"carbs"`
	Fats      float64   `gorm:"not null;column:fats" json:"fats"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (NutritionGoal) TableName() string { return "nutrition_goal" }

// GoalPatch is a partial goal update; nil fields keep their stored value.
type GoalPatch struct {
	Calories *int     `json:"calories"`
	Proteins *float64 `json:"proteins"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
}

func (g NutritionGoal) Apply(p GoalPatch) NutritionGoal {
	if p.Calories != nil {
		g.Calories = *p.Calories
	}
	if p.Proteins != nil {
		g.Proteins = *p.Proteins
	}
	if p.Carbs != nil {
		g.Carbs = *p.Carbs
	}
	if p.Fats != nil {
		g.Fats = *p.Fats
	}
	return g
}
