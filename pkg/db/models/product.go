package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderplus/orderplus-backend/pkg/enums"
)

// Product is a catalog entry. Rows with OriginImported were fabricated from
// webhook or abandoned-cart payloads and are hidden from the public listing.
type Product struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID    int64               `gorm:"column:category_id;not null"`
	Name          string              `gorm:"column:name;not null"`
	Slug          string              `gorm:"column:slug;not null;uniqueIndex"`
	Description   string              `gorm:"column:description"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice *decimal.Decimal    `gorm:"column:discount_price;type:numeric(12,2)"`
	Quantity      int                 `gorm:"column:quantity;not null;default:0"`
	Image         *string             `gorm:"column:image"`
	Status        enums.ProductStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Origin        enums.ProductOrigin `gorm:"column:origin;type:text;not null;default:'catalog'"`
	Category      *Category           `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
