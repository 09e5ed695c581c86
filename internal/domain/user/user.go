package user

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string         `gorm:"not null;column:password_hash" json:"-"`
	FirstName    string         `gorm:"not null;column:first_name" json:"first_name"`
	FitnessGoal  *string        `gorm:"column:fitness_goal" json:"fitness_goal"`
	Settings     datatypes.JSON `gorm:"column:notification_settings;type:jsonb" json:"-"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }

type NotificationSettings struct {
	Enabled      bool     `json:"enabled"`
	TrainingDays []string `json:"training_days"`
	TrainingTime *string  `json:"training_time"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{Enabled: true, TrainingDays: []string{}}
}

// NotificationSettings decodes the stored settings, falling back to defaults.
func (u *User) NotificationSettings() NotificationSettings {
	out := DefaultNotificationSettings()
	if u == nil || len(u.Settings) == 0 {
		return out
	}
	if err := json.Unmarshal(u.Settings, &out); err != nil {
		return DefaultNotificationSettings()
	}
	if out.TrainingDays == nil {
		out.TrainingDays = []string{}
	}
	return out
}

func (u *User) SetNotificationSettings(s NotificationSettings) error {
	if s.TrainingDays == nil {
		s.TrainingDays = []string{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	u.Settings = datatypes.JSON(raw)
	return nil
}

// NotificationSettingsPatch carries a partial update; nil fields are left unchanged.
type NotificationSettingsPatch struct {
	Enabled      *bool     `json:"enabled"`
	TrainingDays *[]string `json:"training_days"`
	TrainingTime *string   `json:"training_time"`
}

func (s NotificationSettings) Apply(p NotificationSettingsPatch) NotificationSettings {
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.TrainingDays != nil {
		s.TrainingDays = append([]string{}, (*p.TrainingDays)...)
	}
	if p.TrainingTime != nil {
		t := *p.TrainingTime
		s.TrainingTime = &t
	}
	return s
}
