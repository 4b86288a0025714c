package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/api/validators"
	ordersvc "github.com/orderplus/orderplus-backend/internal/orders"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
)

type webhookLineRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Image    *string         `json:"image,omitempty"`
}

type webhookBillingRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type webhookShippingRequest struct {
	Address1 string `json:"address_1"`
	Address2 string `json:"address_2"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type webhookOrderRequest struct {
	Number             string                 `json:"number"`
	Billing            webhookBillingRequest  `json:"billing"`
	Shipping           webhookShippingRequest `json:"shipping"`
	PaymentMethodTitle string                 `json:"payment_method_title"`
	Total              decimal.Decimal        `json:"total"`
	LineItems          []webhookLineRequest   `json:"line_items" validate:"required,min=1,dive"`
}

// IngestWebhookOrder accepts storefront order webhooks. Replays are not
// deduplicated on purpose; every delivery creates a fresh order.
func IngestWebhookOrder(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload webhookOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ordersvc.WebhookLine, 0, len(payload.LineItems))
		for _, line := range payload.LineItems {
			items = append(items, ordersvc.WebhookLine{
				Name:     line.Name,
				Price:    line.Price,
				Quantity: line.Quantity,
				Image:    line.Image,
			})
		}

		result, err := svc.IngestWebhook(r.Context(), ordersvc.WebhookOrderInput{
			ExternalNumber: payload.Number,
			Billing: ordersvc.WebhookBilling{
				FirstName: payload.Billing.FirstName,
				LastName:  payload.Billing.LastName,
				Email:     payload.Billing.Email,
				Phone:     payload.Billing.Phone,
			},
			Shipping: ordersvc.WebhookShipping{
				Address1: payload.Shipping.Address1,
				Address2: payload.Shipping.Address2,
				City:     payload.Shipping.City,
				Country:  payload.Shipping.Country,
			},
			PaymentMethodTitle: payload.PaymentMethodTitle,
			Total:              payload.Total,
			Items:              items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, orderCreatedResponse{
			OrderID: result.OrderID,
			UserID:  result.UserID,
		})
	}
}
