package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are serialized as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Course struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title           string          `gorm:"not null;column:title" json:"title"`
	Description     string          `gorm:"not null;column:description" json:"description"`
	Category        string          `gorm:"not null;index;column:category" json:"category"`
	DurationMinutes int             `gorm:"not null;column:duration_minutes" json:"duration_minutes"`
	Level           string          `gorm:"not null;column:level" json:"level"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null;column:price" json:"price"`
	VideoURL        *string         `gorm:"column:video_url" json:"video_url"`
	TeaserURL       *string         `gorm:"column:teaser_url" json:"teaser_url"`
	ThumbnailURL    *string         `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	AppleProductID  *string         `gorm:"uniqueIndex;column:apple_product_id" json:"apple_product_id,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// PriceCents converts the price to integer minor units, rounding half away from zero.
func (c *Course) PriceCents() int64 {
	return c.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
