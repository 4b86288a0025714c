package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/internal/activity"
	"github.com/orderplus/orderplus-backend/internal/catalog"
	"github.com/orderplus/orderplus-backend/internal/performance"
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
	orderNumberLength = 10

	cashOnDeliveryLabel = "Cash on delivery"

	guestEmailDomain = "example.com"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type performanceRecorder interface {
	Record(ctx context.Context, input performance.RecordInput)
}

// Service runs the order pipeline across its three intake channels plus the
// status lifecycle. Every creation path applies its writes as one
// transaction; nothing persists when any step fails.
type Service struct {
	repo        *Repository
	users       *users.Repository
	catalog     *catalog.Repository
	activity    *activity.Repository
	tx          txRunner
	outbox      outboxEmitter
	performance performanceRecorder
	passwords   config.PasswordConfig
}

// NewService builds the order pipeline service.
func NewService(
	repo *Repository,
	usersRepo *users.Repository,
	catalogRepo *catalog.Repository,
	activityRepo *activity.Repository,
	tx txRunner,
	outboxSvc outboxEmitter,
	perf performanceRecorder,
	passwords config.PasswordConfig,
) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
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
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &Service{
		repo:        repo,
		users:       usersRepo,
		catalog:     catalogRepo,
		activity:    activityRepo,
		tx:          tx,
		outbox:      outboxSvc,
		performance: perf,
		passwords:   passwords,
	}, nil
}

// CreateFromCart turns a direct checkout payload into a persisted order.
// Line totals are recomputed server-side; the client-declared total is not
// trusted.
func (s *Service) CreateFromCart(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	orderNumber, err := security.RandomToken(orderNumberLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}
	passwordHash, err := security.HashPassword(input.Mobile, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash customer password")
	}

	var result CreateOrderResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.users.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		ordersRepo := s.repo.WithTx(tx)
		activityRepo := s.activity.WithTx(tx)

		user, _, err := usersRepo.FindOrCreateByEmail(ctx, users.FindOrCreateParams{
			Name:         input.Name,
			Email:        input.Email,
			Mobile:       input.Mobile,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve customer")
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		total := decimal.Zero
		for idx, line := range input.Items {
			if _, err := catalogRepo.FindByID(ctx, line.ProductID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "unknown product in cart").
						WithDetails(map[string]any{
							"index":      idx,
							"product_id": line.ProductID,
						})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart product")
			}
			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
				Total:     lineTotal,
			})
		}

		order := models.Order{
			UserID:          user.ID,
			OrderNumber:     orderNumber,
			TotalAmount:     total,
			Source:          enums.OrderSourceWeb,
			PaymentStatus:   input.PaymentStatus,
			Status:          enums.OrderStatusPending,
			ShippingAddress: input.ShippingAddress,
		}
		if _, err := ordersRepo.Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := ordersRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := activityRepo.Append(ctx, user.ID, activity.ActionOrderPlaced,
			fmt.Sprintf("Order %s placed via checkout", order.OrderNumber)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append activity")
		}

		if err := s.emitOrderPlaced(ctx, tx, &order, items, nil); err != nil {
			return err
		}

		result = CreateOrderResult{OrderID: order.ID, UserID: user.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// IngestWebhook turns a storefront (WooCommerce-shaped) payload into one
// order with one freshly imported product per line item. Replays are not
// deduplicated; only the user is resolved by email.
func (s *Service) IngestWebhook(ctx context.Context, input WebhookOrderInput) (*CreateOrderResult, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook payload has no line items")
	}
	for idx, line := range input.Items {
		if strings.TrimSpace(line.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item name required").
				WithDetails(map[string]any{"index": idx})
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be at least 1").
				WithDetails(map[string]any{"index": idx})
		}
	}

	orderNumber, err := security.RandomToken(orderNumberLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	email := strings.TrimSpace(input.Billing.Email)
	if email == "" {
		token, err := security.RandomToken(orderNumberLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate guest email")
		}
		email = fmt.Sprintf("guest_%s@%s", strings.ToLower(token), guestEmailDomain)
	}

	passwordSeed := input.Billing.Phone
	if passwordSeed == "" {
		passwordSeed = orderNumber
	}
	passwordHash, err := security.HashPassword(passwordSeed, s.passwords)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash customer password")
	}

	name := strings.TrimSpace(strings.TrimSpace(input.Billing.FirstName) + " " + strings.TrimSpace(input.Billing.LastName))
	if name == "" {
		name = "Guest Customer"
	}

	paymentStatus := enums.PaymentStatusPaid
	if input.PaymentMethodTitle == cashOnDeliveryLabel {
		paymentStatus = enums.PaymentStatusUnpaid
	}
	shippingAddress := joinAddress(
		input.Shipping.Address1,
		input.Shipping.Address2,
		input.Shipping.City,
		input.Shipping.Country,
	)

	var result CreateOrderResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.users.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		ordersRepo := s.repo.WithTx(tx)
		activityRepo := s.activity.WithTx(tx)

		user, _, err := usersRepo.FindOrCreateByEmail(ctx, users.FindOrCreateParams{
			Name:         name,
			Email:        email,
			Mobile:       input.Billing.Phone,
			PasswordHash: passwordHash,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve customer")
		}

		categoryID, err := catalogRepo.ImportedCategoryID(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve imported category")
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		total := decimal.Zero
		for _, line := range input.Items {
			product, err := catalogRepo.CreateImported(ctx, categoryID, catalog.ImportedProductParams{
				Name:        line.Name,
				Description: fmt.Sprintf("Imported from storefront order %s", input.ExternalNumber),
				Price:       line.Price,
				Quantity:    line.Quantity,
				Image:       line.Image,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import product")
			}
			lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     line.Price,
				Total:     lineTotal,
			})
		}
		if input.Total.IsPositive() {
			total = input.Total
		}

		order := models.Order{
			UserID:          user.ID,
			OrderNumber:     orderNumber,
			TotalAmount:     total,
			Source:          enums.OrderSourceWordPress,
			PaymentStatus:   paymentStatus,
			Status:          enums.OrderStatusPending,
			ShippingAddress: shippingAddress,
		}
		if _, err := ordersRepo.Create(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := ordersRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := activityRepo.Append(ctx, user.ID, activity.ActionOrderPlaced,
			fmt.Sprintf("Order %s ingested from storefront webhook", order.OrderNumber)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append activity")
		}

		if err := s.emitOrderPlaced(ctx, tx, &order, items, nil); err != nil {
			return err
		}

		result = CreateOrderResult{OrderID: order.ID, UserID: user.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateStatus applies an optional status and/or payment status change under
// an optimistic version check. A concurrent writer on the same order loses
// with a conflict instead of silently overwriting.
func (s *Service) UpdateStatus(ctx context.Context, input UpdateStatusInput) error {
	if input.OrderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Status == nil && input.PaymentStatus == nil {
		// Nothing requested; succeed without touching the order.
		return nil
	}

	updates := map[string]any{}
	if input.Status != nil {
		status, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
				WithDetails(map[string]any{"status": *input.Status})
		}
		updates["status"] = status
	}
	if input.PaymentStatus != nil {
		paymentStatus, err := enums.ParsePaymentStatus(*input.PaymentStatus)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
				WithDetails(map[string]any{"payment_status": *input.PaymentStatus})
		}
		updates["payment_status"] = paymentStatus
	}
	if input.Actor.UserID != 0 {
		updates["status_updated_by"] = fmt.Sprintf("%d-%s", input.Actor.UserID, input.Actor.Name)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.repo.WithTx(tx)
		activityRepo := s.activity.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		affected, err := ordersRepo.UpdateWithVersion(ctx, order.ID, order.Version, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if affected == 0 {
			// Orders are never deleted, so a zero-row update means the
			// version moved underneath us.
			return pkgerrors.New(pkgerrors.CodeConflict, "order was updated concurrently")
		}

		actorID := input.Actor.UserID
		if actorID == 0 {
			actorID = order.UserID
		}
		description := updateDescription(order.OrderNumber, input)
		if err := activityRepo.Append(ctx, actorID, activity.ActionOrderUpdated, description); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append activity")
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Performance points are recorded after commit. A failure here is the
	// recorder's problem, never the caller's.
	if s.performance != nil && input.Actor.UserID != 0 {
		s.performance.Record(ctx, performance.RecordInput{
			UserID:   input.Actor.UserID,
			UserName: input.Actor.Name,
			OrderID:  input.OrderID,
			Type:     "Order update",
		})
	}
	return nil
}

// List pages through orders for the back office.
func (s *Service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, string, error) {
	rows, next, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, next, nil
}

// CompletedReport aggregates completed order stats.
func (s *Service) CompletedReport(ctx context.Context, filters ListFilters) (*Report, error) {
	report, err := s.repo.CompletedReport(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order report")
	}
	return report, nil
}

func (s *Service) emitOrderPlaced(ctx context.Context, tx *gorm.DB, order *models.Order, items []models.OrderItem, actor *outbox.ActorRef) error {
	eventItems := make([]OrderPlacedItem, 0, len(items))
	for _, item := range items {
		eventItems = append(eventItems, OrderPlacedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Total,
		})
	}
	event := outbox.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Version:       1,
		Actor:         actor,
		Data: OrderPlacedEvent{
			OrderID:         order.ID,
			OrderNumber:     order.OrderNumber,
			UserID:          order.UserID,
			TotalAmount:     order.TotalAmount,
			Source:          order.Source,
			Status:          order.Status,
			PaymentStatus:   order.PaymentStatus,
			ShippingAddress: order.ShippingAddress,
			Items:           eventItems,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order event")
	}
	return nil
}

func validateCreateInput(input CreateOrderInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if strings.TrimSpace(input.Mobile) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer mobile required")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	if !input.PaymentStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
			WithDetails(map[string]any{"payment_status": string(input.PaymentStatus)})
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	for idx, line := range input.Items {
		if line.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required").
				WithDetails(map[string]any{"index": idx})
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"index": idx})
		}
		if line.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative").
				WithDetails(map[string]any{"index": idx})
		}
	}
	return nil
}

func updateDescription(orderNumber string, input UpdateStatusInput) string {
	parts := []string{}
	if input.Status != nil {
		parts = append(parts, fmt.Sprintf("status to %s", *input.Status))
	}
	if input.PaymentStatus != nil {
		parts = append(parts, fmt.Sprintf("payment status to %s", *input.PaymentStatus))
	}
	return fmt.Sprintf("Order %s updated: %s", orderNumber, strings.Join(parts, ", "))
}

func joinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ", ")
}
