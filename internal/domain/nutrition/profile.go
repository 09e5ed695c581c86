package nutrition

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NutritionProfile is the last biometric questionnaire a user submitted, stored as sent.
type NutritionProfile struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Input     datatypes.JSON `gorm:"column:input;type:jsonb;not null" json:"input"`
	Result    datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (NutritionProfile) TableName() string { return "nutrition_profile" }
