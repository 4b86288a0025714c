package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) (*gorm.DB, int64) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))

	category := models.Category{Name: "Imported", Slug: models.ImportedCategorySlug}
	require.NoError(t, db.Create(&category).Error)
	return db, category.ID
}

func TestListLatestExcludesImportedAndInactive(t *testing.T) {
	db, categoryID := setupCatalogTestDB(t)
	repo := NewRepository(db)

	catalogProduct := models.Product{
		CategoryID: categoryID, Name: "Visible", Slug: "visible",
		Price: decimal.NewFromInt(10), Status: enums.ProductStatusActive,
		Origin: enums.ProductOriginCatalog,
	}
	inactive := models.Product{
		CategoryID: categoryID, Name: "Hidden", Slug: "hidden",
		Price: decimal.NewFromInt(10), Status: enums.ProductStatusInactive,
		Origin: enums.ProductOriginCatalog,
	}
	require.NoError(t, db.Create(&catalogProduct).Error)
	require.NoError(t, db.Create(&inactive).Error)

	_, err := repo.CreateImported(context.Background(), categoryID, ImportedProductParams{
		Name:  "Webhook Product",
		Price: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	products, err := repo.ListLatest(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Visible", products[0].Name)
}

func TestCreateImportedNeverCollidesOnSlug(t *testing.T) {
	db, categoryID := setupCatalogTestDB(t)
	repo := NewRepository(db)

	first, err := repo.CreateImported(context.Background(), categoryID, ImportedProductParams{
		Name:  "Honey 500g",
		Price: decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	second, err := repo.CreateImported(context.Background(), categoryID, ImportedProductParams{
		Name:  "Honey 500g",
		Price: decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Regexp(t, `^honey-500g-[a-z0-9]{6}$`, first.Slug)
	assert.Equal(t, enums.ProductOriginImported, first.Origin)
}

func TestCreateImportedBlankNameFallsBack(t *testing.T) {
	db, categoryID := setupCatalogTestDB(t)
	repo := NewRepository(db)

	product, err := repo.CreateImported(context.Background(), categoryID, ImportedProductParams{
		Name:  "   ",
		Price: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^imported-product-[a-z0-9]{6}$`, product.Slug)
}

func TestImportedCategoryID(t *testing.T) {
	db, categoryID := setupCatalogTestDB(t)
	repo := NewRepository(db)

	got, err := repo.ImportedCategoryID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, categoryID, got)
}
