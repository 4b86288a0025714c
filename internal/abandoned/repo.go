package abandoned

import (
	"context"

	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/pagination"
)

// Repository exposes abandoned-cart persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an abandoned repo bound to the provided GORM DB.
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

// Create inserts a captured snapshot. Captures are never deduplicated.
func (r *Repository) Create(ctx context.Context, row *models.AbandonedOrder) (*models.AbandonedOrder, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindByID loads one captured snapshot.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.AbandonedOrder, error) {
	var row models.AbandonedOrder
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List pages through captured snapshots newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.AbandonedOrder, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Model(&models.AbandonedOrder{})
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.AbandonedOrder
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return rows, nextCursor, nil
}
