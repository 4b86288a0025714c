package landing

import (
	"context"

	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/pkg/db/models"
)

// Repository reads marketing landing pages. Authoring stays in the admin
// tooling; this surface only serves them.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a landing-page repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all pages newest first with their products preloaded.
func (r *Repository) List(ctx context.Context) ([]models.LandingPage, error) {
	var pages []models.LandingPage
	err := r.db.WithContext(ctx).
		Preload("Product").
		Order("created_at DESC").
		Find(&pages).Error
	return pages, err
}

// FindByID loads one page with its product.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.LandingPage, error) {
	var page models.LandingPage
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&page, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}
