package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderplus/orderplus-backend/pkg/enums"
)

// Order is one checkout transaction. Version backs the optimistic lock on
// status updates; concurrent writers lose with a conflict instead of
// silently overwriting each other.
type Order struct {
	ID              int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64               `gorm:"column:user_id;not null"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Source          enums.OrderSource   `gorm:"column:source;type:text;not null;default:'web'"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'unpaid'"`
	Status          enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	ShippingAddress string              `gorm:"column:shipping_address"`
	StatusUpdatedBy *string             `gorm:"column:status_updated_by"`
	Version         int                 `gorm:"column:version;not null;default:0"`
	User            *User               `gorm:"foreignKey:UserID"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments        []Payment           `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
