package models

import "time"

// Activity is an append-only audit trail entry. Never updated or deleted.
type Activity struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Action      string    `gorm:"column:action;not null"`
	Description string    `gorm:"column:description"`
	User        *User     `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the legacy table name.
func (Activity) TableName() string {
	return "activity_logs"
}
