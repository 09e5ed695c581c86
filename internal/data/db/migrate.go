package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/amelfit-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.AllModels()...)
}

// EnsureIndexes adds the indexes gorm tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	// Newest-first meal history per user.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_meal_entry_user_created_desc
		ON meal_entry (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_meal_entry_user_created_desc: %w", err)
	}

	// Case-insensitive email lookups.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_user_email_lower
		ON "user" (lower(email));
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_email_lower: %w", err)
	}

	// Access checks and the purchased-courses view.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_purchase_user_course_status
		ON purchase (user_id, course_id, status);
	`).Error; err != nil {
		return fmt.Errorf("create idx_purchase_user_course_status: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureIndexes(s.db); err != nil {
		s.log.Error("Index migration failed", "error", err)
		return err
	}
	return nil
}
