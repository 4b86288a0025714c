package abandoned

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/internal/activity"
	"github.com/orderplus/orderplus-backend/internal/catalog"
	"github.com/orderplus/orderplus-backend/internal/orders"
	"github.com/orderplus/orderplus-backend/internal/users"
	"github.com/orderplus/orderplus-backend/pkg/config"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/outbox"
	"github.com/orderplus/orderplus-backend/pkg/pagination"
	"github.com/orderplus/orderplus-backend/pkg/security"
)

const (
	// Sentinel values carried over from the legacy conversion flow.
	convertedShippingAddress   = "Not Set"
	convertedProductStock      = 9999
	convertedProductDesc       = "transformed from Incomplete cart"
	convertedOrderNumberLength = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CaptureInput is the denormalized snapshot taken when a visitor stalls at
// checkout.
type CaptureInput struct {
	Name         *string
	Mobile       string
	Email        *string
	ProductName  string
	ProductImage *string
	ProductPrice *decimal.Decimal
}

// ConvertInput completes a captured snapshot into a real order.
type ConvertInput struct {
	AbandonedID int64
	Quantity    int
	TotalPrice  decimal.Decimal
}

// ConvertResult reports the ids produced by a conversion.
type ConvertResult struct {
	OrderID int64
	UserID  int64
}

// Service captures abandoned carts and promotes them into the order
// pipeline. The captured row is left untouched by conversion; converting the
// same snapshot twice produces two independent orders.
type Service struct {
	repo      *Repository
	users     *users.Repository
	catalog   *catalog.Repository
	activity  *activity.Repository
	orders    *orders.Repository
	tx        txRunner
	outbox    outboxEmitter
	passwords config.PasswordConfig
}

// NewService builds the abandoned-cart service.
func NewService(
	repo *Repository,
	usersRepo *users.Repository,
	catalogRepo *catalog.Repository,
	activityRepo *activity.Repository,
	ordersRepo *orders.Repository,
	tx txRunner,
	outboxSvc outboxEmitter,
	passwords config.PasswordConfig,
) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("abandoned repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if activityRepo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &Service{
		repo:      repo,
		users:     usersRepo,
		catalog:   catalogRepo,
		activity:  activityRepo,
		orders:    ordersRepo,
		tx:        tx,
		outbox:    outboxSvc,
		passwords: passwords,
	}, nil
}

// Capture records one snapshot. No dedup against earlier captures from the
// same contact.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (*models.AbandonedOrder, error) {
	if strings.TrimSpace(input.Mobile) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mobile number required")
	}
	if strings.TrimSpace(input.ProductName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}

	row := models.AbandonedOrder{
		Name:         input.Name,
		Mobile:       strings.TrimSpace(input.Mobile),
		Email:        input.Email,
		ProductName:  strings.TrimSpace(input.ProductName),
		ProductImage: input.ProductImage,
		ProductPrice: input.ProductPrice,
	}
	created, err := s.repo.Create(ctx, &row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "capture abandoned cart")
	}
	return created, nil
}

// Convert promotes a captured snapshot into a user, an imported product, an
// order and its item, atomically. The snapshot row is not flagged or
// deleted.
func (s *Service) Convert(ctx context.Context, input ConvertInput) (*ConvertResult, error) {
	if input.AbandonedID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "abandoned id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.TotalPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total price cannot be negative")
	}

	snapshot, err := s.repo.FindByID(ctx, input.AbandonedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "abandoned cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load abandoned cart")
	}

	orderNumber, err := security.RandomToken(convertedOrderNumberLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}
	passwordHash, err := security.HashPassword(snapshot.Mobile, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash customer password")
	}

	email := ""
	if snapshot.Email != nil {
		email = strings.TrimSpace(*snapshot.Email)
	}
	if email == "" {
		token, err := security.RandomToken(convertedOrderNumberLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate guest email")
		}
		email = fmt.Sprintf("guest_%s@example.com", strings.ToLower(token))
	}
	name := snapshot.Mobile
	if snapshot.Name != nil && strings.TrimSpace(*snapshot.Name) != "" {
		name = strings.TrimSpace(*snapshot.Name)
	}

	unitPrice := decimal.Zero
	if snapshot.ProductPrice != nil {
		unitPrice = *snapshot.ProductPrice
	}

	var result ConvertResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.users.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)
		activityRepo := s.activity.WithTx(tx)

		user, _, err := usersRepo.FindOrCreateByEmail(ctx, users.FindOrCreateParams{
			Name:         name,
			Email:        email,
			Mobile:       snapshot.Mobile,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve customer")
		}

		categoryID, err := catalogRepo.ImportedCategoryID(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve imported category")
		}
		product, err := catalogRepo.CreateImported(ctx, categoryID, catalog.ImportedProductParams{
			Name:        snapshot.ProductName,
			Description: convertedProductDesc,
			Price:       unitPrice,
			Quantity:    convertedProductStock,
			Image:       snapshot.ProductImage,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import product")
		}

		order := models.Order{
			UserID:          user.ID,
			OrderNumber:     orderNumber,
			TotalAmount:     input.TotalPrice,
			Source:          enums.OrderSourceWeb,
			PaymentStatus:   enums.PaymentStatusUnpaid,
			Status:          enums.OrderStatusProcessing,
			ShippingAddress: convertedShippingAddress,
		}
		if _, err := ordersRepo.Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  input.Quantity,
			Price:     unitPrice,
			Total:     input.TotalPrice,
		}
		if err := ordersRepo.CreateItems(ctx, []models.OrderItem{item}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order item")
		}

		if err := activityRepo.Append(ctx, user.ID, activity.ActionOrderPlaced,
			fmt.Sprintf("Order %s recovered from abandoned cart %d", order.OrderNumber, snapshot.ID)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append activity")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: map[string]any{
				"order_id":       order.ID,
				"order_number":   order.OrderNumber,
				"user_id":        user.ID,
				"total_amount":   order.TotalAmount,
				"source":         order.Source,
				"status":         order.Status,
				"payment_status": order.PaymentStatus,
				"abandoned_id":   snapshot.ID,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order event")
		}

		result = ConvertResult{OrderID: order.ID, UserID: user.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List pages through captured snapshots.
func (s *Service) List(ctx context.Context, params pagination.Params) ([]models.AbandonedOrder, string, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list abandoned carts")
	}
	return rows, next, nil
}
