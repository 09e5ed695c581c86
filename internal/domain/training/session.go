package training

import (
	"time"

	"github.com/google/uuid"
)

// SessionRecord is one completed walking-programme session. Append-only.
type SessionRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_session_record_user_completed,priority:1" json:"user_id"`
	WeekID          int       `gorm:"not null;column:week_id" json:"week_id"`
	SeanceID        int       `gorm:"not null;column:seance_id" json:"seance_id"`
	Steps           int       `gorm:"not null;column:steps" json:"steps"`
	DurationMinutes int       `gorm:"not null;column:duration_minutes" json:"duration_minutes"`
	PhasesCompleted int       `gorm:"not null;column:phases_completed" json:"phases_completed"`
	CompletedAt     time.Time `gorm:"not null;index:idx_session_record_user_completed,priority:2" json:"completed_at"`
}

func (SessionRecord) TableName() string { return "session_record" }
