package models

import (
	"time"

	"github.com/lib/pq"
)

// LandingPage is a marketing page bound to one product, with a banner plus
// a gallery of image paths.
type LandingPage struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   int64          `gorm:"column:product_id;not null"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description"`
	Banner      *string        `gorm:"column:banner"`
	Images      pq.StringArray `gorm:"column:images;type:text[]"`
	Product     *Product       `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
