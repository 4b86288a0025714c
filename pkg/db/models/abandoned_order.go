package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AbandonedOrder is a captured incomplete-cart snapshot. Product fields are
// denormalized copies, not foreign keys. Conversion to a real order leaves
// the row untouched.
type AbandonedOrder struct {
	ID           int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Name         *string          `gorm:"column:name"`
	Mobile       string           `gorm:"column:mobile;not null"`
	Email        *string          `gorm:"column:email"`
	ProductName  string           `gorm:"column:product_name"`
	ProductImage *string          `gorm:"column:product_image"`
	ProductPrice *decimal.Decimal `gorm:"column:product_price;type:numeric(12,2)"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
