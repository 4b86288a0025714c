package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is declared for schema completeness; no in-scope flow writes it.
type Payment struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID       int64           `gorm:"column:order_id;not null;index"`
	PaymentMethod string          `gorm:"column:payment_method;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        string          `gorm:"column:status;not null"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
