package models

import (
	"time"

	"github.com/orderplus/orderplus-backend/pkg/enums"
)

// EmployeeRange is a best-effort performance point record written when an
// agent updates an order. The point column is text in the legacy schema.
type EmployeeRange struct {
	ID        int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string                    `gorm:"column:name;not null"`
	UserID    int64                     `gorm:"column:user_id;not null"`
	OrderID   int64                     `gorm:"column:order_id;not null"`
	Type      string                    `gorm:"column:type;not null"`
	Stage     enums.EmployeeStage       `gorm:"column:stage;type:text;not null;default:'Basic'"`
	Status    enums.EmployeeRangeStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Point     string                    `gorm:"column:point;not null;default:'0'"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
