package models

import "time"

// Category groups catalog products. The reserved "imported" category holds
// products synthesized by the webhook and abandoned-cart intake paths.
type Category struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	ParentID    *int64    `gorm:"column:parent_id"`
	Products    []Product `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ImportedCategorySlug names the category that receives synthesized products.
const ImportedCategorySlug = "imported"
