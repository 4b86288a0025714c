package orders

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
	"github.com/orderplus/orderplus-backend/internal/performance"
	"github.com/orderplus/orderplus-backend/internal/users"
	"github.com/orderplus/orderplus-backend/pkg/config"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
	"github.com/orderplus/orderplus-backend/pkg/outbox"
	"github.com/orderplus/orderplus-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
		&models.OutboxEvent{},
		&models.EmployeeRange{},
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
		gormTxRunner{db: db},
		outbox.NewService(outbox.NewRepository(db), logg),
		performance.NewRecorder(db, logg, nil),
		config.PasswordConfig{},
	)
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string) *models.Product {
	t.Helper()

	var category models.Category
	require.NoError(t, db.First(&category, "slug = ?", models.ImportedCategorySlug).Error)

	product := models.Product{
		CategoryID: category.ID,
		Name:       name,
		Slug:       name,
		Price:      decimal.RequireFromString(price),
		Quantity:   100,
		Status:     enums.ProductStatusActive,
		Origin:     enums.ProductOriginCatalog,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestCreateFromCartPersistsOneOrderPerCheckout(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	first := seedProduct(t, db, "widget", "10.00")
	second := seedProduct(t, db, "gadget", "5.50")

	result, err := svc.CreateFromCart(context.Background(), CreateOrderInput{
		Name:            "Jamila Khan",
		Email:           "Jamila@Example.com",
		Mobile:          "01700000000",
		PaymentStatus:   enums.PaymentStatusUnpaid,
		ShippingAddress: "House 7, Road 2, Dhaka",
		Items: []CartLine{
			{ProductID: first.ID, Quantity: 2, UnitPrice: first.Price},
			{ProductID: second.ID, Quantity: 1, UnitPrice: second.Price},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, "id = ?", result.OrderID).Error)
	assert.Equal(t, enums.OrderSourceWeb, order.Source)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	// 2*10.00 + 1*5.50, recomputed server side
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.50")),
		"total %s", order.TotalAmount)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", result.UserID).Error)
	assert.Equal(t, "jamila@example.com", user.Email)
	assert.Equal(t, enums.UserRoleCustomer, user.Role)

	var activityCount int64
	require.NoError(t, db.Model(&models.Activity{}).Where("user_id = ?", user.ID).Count(&activityCount).Error)
	assert.Equal(t, int64(1), activityCount)

	var eventCount int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)
}

func TestCreateFromCartReusesExistingCustomer(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	product := seedProduct(t, db, "widget", "10.00")

	place := func(name string) *CreateOrderResult {
		result, err := svc.CreateFromCart(context.Background(), CreateOrderInput{
			Name:            name,
			Email:           "repeat@example.com",
			Mobile:          "01700000000",
			PaymentStatus:   enums.PaymentStatusPaid,
			ShippingAddress: "Dhaka",
			Items:           []CartLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price}},
		})
		require.NoError(t, err)
		return result
	}

	first := place("Original Name")
	second := place("Different Name")

	assert.Equal(t, first.UserID, second.UserID)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", first.UserID).Error)
	// identity is first-write-wins
	assert.Equal(t, "Original Name", user.Name)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(1), userCount)
}

func TestCreateFromCartUnknownProductRollsBackEverything(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	product := seedProduct(t, db, "widget", "10.00")

	_, err := svc.CreateFromCart(context.Background(), CreateOrderInput{
		Name:            "Jamila Khan",
		Email:           "jamila@example.com",
		Mobile:          "01700000000",
		PaymentStatus:   enums.PaymentStatusUnpaid,
		ShippingAddress: "Dhaka",
		Items: []CartLine{
			{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price},
			{ProductID: 99999, Quantity: 1, UnitPrice: decimal.NewFromInt(3)},
		},
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	for model, name := range map[any]string{
		&models.Order{}:       "orders",
		&models.OrderItem{}:   "order_items",
		&models.User{}:        "users",
		&models.Activity{}:    "activity_logs",
		&models.OutboxEvent{}: "outbox_events",
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%s should be empty after rollback", name)
	}
}

func TestCreateFromCartValidation(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	cases := []struct {
		name  string
		input CreateOrderInput
	}{
		{"missing name", CreateOrderInput{
			Email: "a@b.c", Mobile: "017", PaymentStatus: enums.PaymentStatusPaid,
			ShippingAddress: "x", Items: []CartLine{{ProductID: 1, Quantity: 1}},
		}},
		{"missing items", CreateOrderInput{
			Name: "n", Email: "a@b.c", Mobile: "017", PaymentStatus: enums.PaymentStatusPaid,
			ShippingAddress: "x",
		}},
		{"bad quantity", CreateOrderInput{
			Name: "n", Email: "a@b.c", Mobile: "017", PaymentStatus: enums.PaymentStatusPaid,
			ShippingAddress: "x", Items: []CartLine{{ProductID: 1, Quantity: 0}},
		}},
		{"negative price", CreateOrderInput{
			Name: "n", Email: "a@b.c", Mobile: "017", PaymentStatus: enums.PaymentStatusPaid,
			ShippingAddress: "x",
			Items:           []CartLine{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}},
		}},
		{"bad payment status", CreateOrderInput{
			Name: "n", Email: "a@b.c", Mobile: "017", PaymentStatus: enums.PaymentStatus("maybe"),
			ShippingAddress: "x", Items: []CartLine{{ProductID: 1, Quantity: 1}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateFromCart(context.Background(), tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestIngestWebhookImportsProductsPerLine(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	result, err := svc.IngestWebhook(context.Background(), WebhookOrderInput{
		ExternalNumber:     "wp-1043",
		PaymentMethodTitle: "Cash on delivery",
		Billing: WebhookBilling{
			FirstName: "Rahim",
			LastName:  "Uddin",
			Email:     "rahim@example.com",
			Phone:     "01811111111",
		},
		Shipping: WebhookShipping{
			Address1: "12 Lake Road",
			City:     "Chattogram",
			Country:  "BD",
		},
		Items: []WebhookLine{
			{Name: "Honey 500g", Price: decimal.RequireFromString("12.00"), Quantity: 2},
			{Name: "Dates 1kg", Price: decimal.RequireFromString("8.00"), Quantity: 1},
		},
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, "id = ?", result.OrderID).Error)
	assert.Equal(t, enums.OrderSourceWordPress, order.Source)
	assert.Equal(t, enums.PaymentStatusUnpaid, order.PaymentStatus)
	assert.Contains(t, order.ShippingAddress, "12 Lake Road")
	assert.Contains(t, order.ShippingAddress, "Chattogram")
	assert.Len(t, order.Items, 2)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("32.00")),
		"total %s", order.TotalAmount)

	var imported []models.Product
	require.NoError(t, db.Where("origin = ?", enums.ProductOriginImported).Find(&imported).Error)
	assert.Len(t, imported, 2)
}

func TestIngestWebhookReplayCreatesSecondOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	input := WebhookOrderInput{
		ExternalNumber:     "wp-200",
		PaymentMethodTitle: "bKash",
		Billing:            WebhookBilling{Email: "replay@example.com", Phone: "018"},
		Items: []WebhookLine{
			{Name: "Honey 500g", Price: decimal.RequireFromString("12.00"), Quantity: 1},
		},
	}

	first, err := svc.IngestWebhook(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.IngestWebhook(context.Background(), input)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.Equal(t, first.UserID, second.UserID)

	var orderCount, productCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.Product{}).
		Where("origin = ?", enums.ProductOriginImported).Count(&productCount).Error)
	assert.Equal(t, int64(2), orderCount)
	assert.Equal(t, int64(2), productCount)
}

func TestIngestWebhookPaidUnlessCashOnDelivery(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	result, err := svc.IngestWebhook(context.Background(), WebhookOrderInput{
		ExternalNumber:     "wp-301",
		PaymentMethodTitle: "bKash",
		Billing:            WebhookBilling{Email: "paid@example.com"},
		Items: []WebhookLine{
			{Name: "Honey", Price: decimal.NewFromInt(5), Quantity: 1},
		},
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", result.OrderID).Error)
	assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
}

func TestIngestWebhookSynthesizesGuestIdentity(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	result, err := svc.IngestWebhook(context.Background(), WebhookOrderInput{
		ExternalNumber: "wp-302",
		Items: []WebhookLine{
			{Name: "Honey", Price: decimal.NewFromInt(5), Quantity: 1},
		},
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", result.UserID).Error)
	assert.Equal(t, "Guest Customer", user.Name)
	assert.Regexp(t, `^guest_[a-z0-9]+@example\.com$`, user.Email)
}

func TestIngestWebhookTrustsDeclaredTotalWhenPositive(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	result, err := svc.IngestWebhook(context.Background(), WebhookOrderInput{
		ExternalNumber: "wp-303",
		Billing:        WebhookBilling{Email: "total@example.com"},
		Total:          decimal.RequireFromString("99.99"),
		Items: []WebhookLine{
			{Name: "Honey", Price: decimal.NewFromInt(5), Quantity: 1},
		},
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", result.OrderID).Error)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("99.99")))
}

var placeSeq int

func placeTestOrder(t *testing.T, svc *Service, db *gorm.DB) *models.Order {
	t.Helper()

	placeSeq++
	product := seedProduct(t, db, fmt.Sprintf("p-%d", placeSeq), "10.00")
	result, err := svc.CreateFromCart(context.Background(), CreateOrderInput{
		Name:            "Customer",
		Email:           fmt.Sprintf("c-%d@example.com", placeSeq),
		Mobile:          "017",
		PaymentStatus:   enums.PaymentStatusUnpaid,
		ShippingAddress: "Dhaka",
		Items:           []CartLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price}},
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", result.OrderID).Error)
	return &order
}

func strPtr(s string) *string { return &s }

func TestUpdateStatusAppliesChangeAndBumpsVersion(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	order := placeTestOrder(t, svc, db)

	err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:       order.ID,
		Status:        strPtr("processing"),
		PaymentStatus: strPtr("paid"),
		Actor:         Actor{UserID: 42, Name: "Agent Smith", Role: enums.UserRoleAgent},
	})
	require.NoError(t, err)

	var updated models.Order
	require.NoError(t, db.First(&updated, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
	assert.Equal(t, enums.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, order.Version+1, updated.Version)
	require.NotNil(t, updated.StatusUpdatedBy)
	assert.Equal(t, "42-Agent Smith", *updated.StatusUpdatedBy)

	var point models.EmployeeRange
	require.NoError(t, db.First(&point, "user_id = ?", 42).Error)
	assert.Equal(t, order.ID, point.OrderID)
	assert.Equal(t, "1", point.Point)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: 12345,
		Status:  strPtr("processing"),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateStatusVersionRaceConflicts(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	order := placeTestOrder(t, svc, db)

	// another writer moved the version after our read
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("version", order.Version+1).Error)

	repo := NewRepository(db)
	affected, err := repo.UpdateWithVersion(context.Background(), order.ID, order.Version,
		map[string]any{"status": enums.OrderStatusProcessing})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestUpdateStatusNoFieldsIsNoOp(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	order := placeTestOrder(t, svc, db)

	require.NoError(t, svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: order.ID}))

	var after models.Order
	require.NoError(t, db.First(&after, "id = ?", order.ID).Error)
	assert.Equal(t, order.Version, after.Version)
	assert.Equal(t, order.Status, after.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	order := placeTestOrder(t, svc, db)

	err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: order.ID,
		Status:  strPtr("teleported"),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestListFiltersAndPages(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)
	product := seedProduct(t, db, "widget", "10.00")

	for i := 0; i < 5; i++ {
		_, err := svc.CreateFromCart(context.Background(), CreateOrderInput{
			Name:            "Customer",
			Email:           fmt.Sprintf("c%d@example.com", i),
			Mobile:          "017",
			PaymentStatus:   enums.PaymentStatusUnpaid,
			ShippingAddress: "Dhaka",
			Items:           []CartLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.Price}},
		})
		require.NoError(t, err)
	}

	rows, next, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	require.NotEmpty(t, next)

	rest, _, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Limit: 100, Cursor: next})
	require.NoError(t, err)
	assert.Len(t, rest, 3)

	paid := enums.PaymentStatusPaid
	none, _, err := svc.List(context.Background(), ListFilters{PaymentStatus: &paid}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCompletedReportCountsOnlyCompleted(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newTestService(t, db)

	first := placeTestOrder(t, svc, db)
	placeTestOrder(t, svc, db)

	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", first.ID).
		Update("status", enums.OrderStatusCompleted).Error)

	report, err := svc.CompletedReport(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.CompletedCount)
	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("10")),
		"total %s", report.TotalSales)
}
