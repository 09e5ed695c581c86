package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/yungbote/amelfit-backend/internal/domain/user"
)

const (
	TransactionStatusPending  = "pending"
	TransactionStatusComplete = "complete"

	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"
)

type PaymentTransaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID     string          `gorm:"not null;uniqueIndex;column:session_id" json:"session_id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *user.User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CourseID      uuid.UUID       `gorm:"type:uuid;not null" json:"course_id"`
	CourseTitle   string          `gorm:"not null;column:course_title" json:"course_title"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null;column:amount" json:"amount"`
	Currency      string          `gorm:"not null;column:currency" json:"currency"`
	PaymentMethod string          `gorm:"not null;column:payment_method" json:"payment_method"`
	Status        string          `gorm:"not null;column:status" json:"status"`
	PaymentStatus string          `gorm:"not null;column:payment_status" json:"payment_status"`
	Metadata      datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt     time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (PaymentTransaction) TableName() string { return "payment_transaction" }

func (t *PaymentTransaction) Paid() bool {
	return t != nil && t.PaymentStatus == PaymentStatusPaid
}
