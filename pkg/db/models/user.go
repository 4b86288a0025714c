package models

import (
	"time"

	"github.com/orderplus/orderplus-backend/pkg/enums"
)

// User represents a customer or back-office identity. Customers are created
// lazily by the order pipeline the first time an email is seen.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	Mobile       string         `gorm:"column:mobile"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
