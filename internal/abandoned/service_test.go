package abandoned

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/internal/activity"
	"github.com/orderplus/orderplus-backend/internal/catalog"
	"github.com/orderplus/orderplus-backend/internal/orders"
	"github.com/orderplus/orderplus-backend/internal/users"
	"github.com/orderplus/orderplus-backend/pkg/config"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
	"github.com/orderplus/orderplus-backend/pkg/outbox"
	"github.com/orderplus/orderplus-backend/pkg/pagination"
)

func setupAbandonedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Activity{},
		&models.AbandonedOrder{},
		&models.OutboxEvent{},
	))

	require.NoError(t, db.Create(&models.Category{
		Name: "Imported",
		Slug: models.ImportedCategorySlug,
	}).Error)

	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test"})
	svc, err := NewService(
		NewRepository(db),
		users.NewRepository(db),
		catalog.NewRepository(db),
		activity.NewRepository(db),
		orders.NewRepository(db),
		gormTxRunner{db: db},
		outbox.NewService(outbox.NewRepository(db), logg),
		config.PasswordConfig{},
	)
	require.NoError(t, err)
	return svc
}

func TestCaptureStoresSnapshot(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	price := decimal.RequireFromString("49.00")
	name := "Karim"
	row, err := svc.Capture(context.Background(), CaptureInput{
		Name:         &name,
		Mobile:       " 01900000000 ",
		ProductName:  "Gift Basket",
		ProductPrice: &price,
	})
	require.NoError(t, err)
	assert.NotZero(t, row.ID)
	assert.Equal(t, "01900000000", row.Mobile)
	assert.Equal(t, "Gift Basket", row.ProductName)
}

func TestCaptureRequiresMobileAndProduct(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Capture(context.Background(), CaptureInput{ProductName: "Gift Basket"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Capture(context.Background(), CaptureInput{Mobile: "01900000000"})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCaptureDoesNotDeduplicate(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	input := CaptureInput{Mobile: "01900000000", ProductName: "Gift Basket"}
	_, err := svc.Capture(context.Background(), input)
	require.NoError(t, err)
	_, err = svc.Capture(context.Background(), input)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.AbandonedOrder{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestConvertCreatesOrderAndLeavesSnapshot(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	price := decimal.RequireFromString("20.00")
	email := "karim@example.com"
	name := "Karim"
	snapshot, err := svc.Capture(context.Background(), CaptureInput{
		Name:         &name,
		Mobile:       "01900000000",
		Email:        &email,
		ProductName:  "Gift Basket",
		ProductPrice: &price,
	})
	require.NoError(t, err)

	result, err := svc.Convert(context.Background(), ConvertInput{
		AbandonedID: snapshot.ID,
		Quantity:    2,
		TotalPrice:  decimal.RequireFromString("40.00"),
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, "id = ?", result.OrderID).Error)
	assert.Equal(t, enums.OrderStatusProcessing, order.Status)
	assert.Equal(t, enums.PaymentStatusUnpaid, order.PaymentStatus)
	assert.Equal(t, "Not Set", order.ShippingAddress)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("40.00")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", order.Items[0].ProductID).Error)
	assert.Equal(t, enums.ProductOriginImported, product.Origin)
	assert.Equal(t, 9999, product.Quantity)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", result.UserID).Error)
	assert.Equal(t, "karim@example.com", user.Email)
	assert.Equal(t, "Karim", user.Name)

	// conversion leaves the captured row untouched
	var after models.AbandonedOrder
	require.NoError(t, db.First(&after, "id = ?", snapshot.ID).Error)
	assert.Equal(t, snapshot.Mobile, after.Mobile)

	var eventCount int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)
}

func TestConvertTwiceProducesTwoOrders(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	snapshot, err := svc.Capture(context.Background(), CaptureInput{
		Mobile:      "01900000000",
		ProductName: "Gift Basket",
	})
	require.NoError(t, err)

	input := ConvertInput{AbandonedID: snapshot.ID, Quantity: 1, TotalPrice: decimal.NewFromInt(10)}
	first, err := svc.Convert(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.Convert(context.Background(), input)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(2), orderCount)
}

func TestConvertMissingSnapshot(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Convert(context.Background(), ConvertInput{
		AbandonedID: 999,
		Quantity:    1,
		TotalPrice:  decimal.NewFromInt(10),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestConvertGuestIdentityFromMobile(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	snapshot, err := svc.Capture(context.Background(), CaptureInput{
		Mobile:      "01955555555",
		ProductName: "Gift Basket",
	})
	require.NoError(t, err)

	result, err := svc.Convert(context.Background(), ConvertInput{
		AbandonedID: snapshot.ID,
		Quantity:    1,
		TotalPrice:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", result.UserID).Error)
	assert.Equal(t, "01955555555", user.Name)
	assert.Regexp(t, `^guest_[a-z0-9]+@example\.com$`, user.Email)
}

func TestListPagesSnapshots(t *testing.T) {
	db := setupAbandonedTestDB(t)
	svc := newTestService(t, db)

	for i := 0; i < 4; i++ {
		_, err := svc.Capture(context.Background(), CaptureInput{
			Mobile:      fmt.Sprintf("0190000000%d", i),
			ProductName: "Gift Basket",
		})
		require.NoError(t, err)
	}

	rows, next, err := svc.List(context.Background(), pagination.Params{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	require.NotEmpty(t, next)

	rest, _, err := svc.List(context.Background(), pagination.Params{Limit: 3, Cursor: next})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
