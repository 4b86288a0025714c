package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	"github.com/orderplus/orderplus-backend/pkg/security"
)

const listingLimit = 20

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
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

// ListLatest returns the newest sellable catalog products. Imported rows
// synthesized by the intake paths are excluded from the public listing.
func (r *Repository) ListLatest(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.ProductStatusActive).
		Where("origin = ?", enums.ProductOriginCatalog).
		Order("created_at DESC").
		Order("id DESC").
		Limit(listingLimit).
		Find(&products).Error
	return products, err
}

// FindByID loads one product regardless of origin.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ImportedCategoryID resolves the reserved category that receives
// synthesized products.
func (r *Repository) ImportedCategoryID(ctx context.Context) (int64, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ?", models.ImportedCategorySlug).
		First(&category).Error
	if err != nil {
		return 0, err
	}
	return category.ID, nil
}

// ImportedProductParams carries the payload fields an intake channel saw.
type ImportedProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
	Image       *string
}

// CreateImported fabricates a product row from an external payload. Each call
// creates a fresh row; imports are never deduplicated against the catalog.
func (r *Repository) CreateImported(ctx context.Context, categoryID int64, params ImportedProductParams) (*models.Product, error) {
	productSlug, err := importedSlug(params.Name)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(params.Name),
		Slug:        productSlug,
		Description: params.Description,
		Price:       params.Price,
		Quantity:    params.Quantity,
		Image:       params.Image,
		Status:      enums.ProductStatusActive,
		Origin:      enums.ProductOriginImported,
	}
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// importedSlug appends a random suffix so repeated imports of the same name
// never trip the unique slug index.
func importedSlug(name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "imported-product"
	}
	suffix, err := security.RandomToken(6)
	if err != nil {
		return "", fmt.Errorf("generating slug suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s", base, strings.ToLower(suffix)), nil
}
