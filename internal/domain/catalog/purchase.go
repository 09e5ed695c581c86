package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/amelfit-backend/internal/domain/user"
)

const (
	PaymentMethodStripe = "stripe"
	PaymentMethodApple  = "apple"

	PurchaseStatusCompleted = "completed"
)

// Purchase grants course access. ProviderRef is the Stripe session id or the Apple
// transaction id and is unique per provider, so grants are idempotent.
type Purchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *user.User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CourseID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"course_id"`
	CourseTitle   string          `gorm:"not null;column:course_title" json:"course_title"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null;column:amount" json:"amount"`
	PaymentMethod string          `gorm:"not null;column:payment_method;uniqueIndex:idx_purchase_provider_ref,priority:1" json:"payment_method"`
	ProviderRef   string          `gorm:"not null;column:provider_ref;uniqueIndex:idx_purchase_provider_ref,priority:2" json:"-"`
	ProductID     *string         `gorm:"column:product_id" json:"product_id,omitempty"`
	Status        string          `gorm:"not null;column:status" json:"status"`
	CreatedAt     time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (Purchase) TableName() string { return "purchase" }
