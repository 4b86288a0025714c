package activity

import (
	"context"

	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/pkg/db/models"
)

// Action labels written by the order pipeline.
const (
	ActionOrderPlaced  = "Order Has been Placed"
	ActionOrderUpdated = "Order Has been Updated"
)

// Repository appends audit trail entries. Rows are never updated or deleted.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an activity repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Append writes one audit entry.
func (r *Repository) Append(ctx context.Context, userID int64, action, description string) error {
	entry := models.Activity{
		UserID:      userID,
		Action:      action,
		Description: description,
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

// ListByUser returns the newest entries for a user.
func (r *Repository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
