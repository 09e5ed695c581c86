package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/domain/user"
)

// PasswordReset stores the sha256 of a single-use reset token, never the token itself.
type PasswordReset struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	TokenHash string     `gorm:"not null;uniqueIndex;column:token_hash" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;column:expires_at" json:"expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (PasswordReset) TableName() string { return "password_reset" }

// Usable reports whether the token can still be redeemed at now.
func (p *PasswordReset) Usable(now time.Time) bool {
	return p != nil && p.UsedAt == nil && now.Before(p.ExpiresAt)
}
