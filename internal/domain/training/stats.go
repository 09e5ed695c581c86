package training

import (
	"time"

	"github.com/google/uuid"
)

const DefaultWeeklyGoal = 20000

// UserStats is the cached fold of a user's session ledger. Version guards concurrent updates.
type UserStats struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TotalSteps        int       `gorm:"not null;default:0;column:total_steps" json:"total_steps"`
	TotalMinutes      int       `gorm:"not null;default:0;column:total_minutes" json:"total_minutes"`
	SessionsCompleted int       `gorm:"not null;default:0;column:sessions_completed" json:"sessions_completed"`
	CurrentStreak     int       `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
	BestStreak        int       `gorm:"not null;default:0;column:best_streak" json:"best_streak"`
	LastSessionDate   *string   `gorm:"column:last_session_date" json:"last_session_date"`
	WeeklyGoal        int       `gorm:"not null;default:20000;column:weekly_goal" json:"weekly_goal"`
	Version           int       `gorm:"not null;default:0;column:version" json:"-"`
	UpdatedAt         time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }

func EmptyStats(userID uuid.UUID) UserStats {
	return UserStats{UserID: userID, WeeklyGoal: DefaultWeeklyGoal}
}

// SameTotals compares the ledger-derived fields, ignoring bookkeeping columns.
func (s UserStats) SameTotals(o UserStats) bool {
	return s.TotalSteps == o.TotalSteps &&
		s.TotalMinutes == o.TotalMinutes &&
		s.SessionsCompleted == o.SessionsCompleted &&
		s.CurrentStreak == o.CurrentStreak &&
		s.BestStreak == o.BestStreak &&
		strPtrEqual(s.LastSessionDate, o.LastSessionDate)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
