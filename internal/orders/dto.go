package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderplus/orderplus-backend/pkg/enums"
)

// CartLine is one product reference inside a direct checkout payload.
type CartLine struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput is the typed payload for the direct checkout channel.
type CreateOrderInput struct {
	Name            string
	Email           string
	Mobile          string
	TotalAmount     decimal.Decimal
	PaymentStatus   enums.PaymentStatus
	ShippingAddress string
	Items           []CartLine
}

// WebhookLine is one line item from an external storefront payload.
type WebhookLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    *string
}

// WebhookBilling holds the customer identity fields of a webhook payload.
type WebhookBilling struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// WebhookShipping holds the destination fields of a webhook payload.
type WebhookShipping struct {
	Address1 string
	Address2 string
	City     string
	Country  string
}

// WebhookOrderInput is the typed payload for the storefront webhook channel.
type WebhookOrderInput struct {
	ExternalNumber     string
	Billing            WebhookBilling
	Shipping           WebhookShipping
	PaymentMethodTitle string
	Total              decimal.Decimal
	Items              []WebhookLine
}

// Actor identifies the authenticated back-office user driving an update.
type Actor struct {
	UserID int64
	Name   string
	Role   enums.UserRole
}

// UpdateStatusInput carries an order status mutation. Both fields are
// optional; a call with neither is a no-op.
type UpdateStatusInput struct {
	OrderID       int64
	Status        *string
	PaymentStatus *string
	Actor         Actor
}

// CreateOrderResult reports the ids produced by an intake channel.
type CreateOrderResult struct {
	OrderID int64
	UserID  int64
}

// ListFilters narrows the back-office order listing.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	From          *time.Time
	To            *time.Time
}

// Report aggregates completed order stats for the admin dashboard.
type Report struct {
	CompletedCount int64           `json:"completed_count"`
	TotalSales     decimal.Decimal `json:"total_sales"`
}

// OrderPlacedItem is one line inside the order-placed event payload.
type OrderPlacedItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// OrderPlacedEvent is the payload broadcast on the orders channel after any
// successful order creation.
type OrderPlacedEvent struct {
	OrderID         int64               `json:"order_id"`
	OrderNumber     string              `json:"order_number"`
	UserID          int64               `json:"user_id"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Source          enums.OrderSource   `json:"source"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []OrderPlacedItem   `json:"items"`
}
