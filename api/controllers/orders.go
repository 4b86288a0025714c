package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orderplus/orderplus-backend/api/middleware"
	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/api/validators"
	ordersvc "github.com/orderplus/orderplus-backend/internal/orders"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
	"github.com/orderplus/orderplus-backend/pkg/pagination"
)

// OrderService is the pipeline surface the order controllers call.
type OrderService interface {
	CreateFromCart(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.CreateOrderResult, error)
	IngestWebhook(ctx context.Context, input ordersvc.WebhookOrderInput) (*ordersvc.CreateOrderResult, error)
	UpdateStatus(ctx context.Context, input ordersvc.UpdateStatusInput) error
	List(ctx context.Context, filters ordersvc.ListFilters, params pagination.Params) ([]models.Order, string, error)
	CompletedReport(ctx context.Context, filters ordersvc.ListFilters) (*ordersvc.Report, error)
}

type cartLineRequest struct {
	ProductID int64           `json:"id" validate:"required,min=1"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price" validate:"required"`
}

type createOrderRequest struct {
	Name            string            `json:"name" validate:"required"`
	Email           string            `json:"email" validate:"required,email"`
	Mobile          string            `json:"mobile" validate:"required"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	PaymentStatus   string            `json:"payment_status" validate:"required"`
	ShippingAddress string            `json:"shipping_address" validate:"required"`
	Cart            []cartLineRequest `json:"cart" validate:"required,min=1,dive"`
}

type orderCreatedResponse struct {
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
}

// CreateOrder handles the direct checkout channel.
func CreateOrder(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentStatus, err := enums.ParsePaymentStatus(payload.PaymentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
					WithDetails(map[string]any{"payment_status": payload.PaymentStatus}))
			return
		}

		items := make([]ordersvc.CartLine, 0, len(payload.Cart))
		for _, line := range payload.Cart {
			items = append(items, ordersvc.CartLine{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.Price,
			})
		}

		result, err := svc.CreateFromCart(r.Context(), ordersvc.CreateOrderInput{
			Name:            payload.Name,
			Email:           payload.Email,
			Mobile:          payload.Mobile,
			TotalAmount:     payload.TotalAmount,
			PaymentStatus:   paymentStatus,
			ShippingAddress: payload.ShippingAddress,
			Items:           items,
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

type updateOrderRequest struct {
	OrderID       int64   `json:"order_id" validate:"required,min=1"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

// UpdateOrder handles order status/payment-status mutations.
func UpdateOrder(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.UpdateStatusInput{
			OrderID:       payload.OrderID,
			Status:        payload.Status,
			PaymentStatus: payload.PaymentStatus,
			Actor: ordersvc.Actor{
				UserID: middleware.UserIDFromContext(r.Context()),
				Name:   middleware.UserNameFromContext(r.Context()),
				Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
			},
		}

		if err := svc.UpdateStatus(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"order_id": payload.OrderID})
	}
}

type listOrdersResponse struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// ListOrders pages through orders for the back office.
func ListOrders(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
				return
			}
			params.Limit = limit
		}

		rows, next, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listOrdersResponse{Orders: rows, NextCursor: next})
	}
}

// OrdersReport serves completed-order stats.
func OrdersReport(svc OrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.CompletedReport(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func orderFiltersFromQuery(r *http.Request) (ordersvc.ListFilters, error) {
	filters := ordersvc.ListFilters{}
	query := r.URL.Query()

	if raw := query.Get("status"); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
				WithDetails(map[string]any{"status": raw})
		}
		filters.Status = &status
	}
	if raw := query.Get("payment_status"); raw != "" {
		paymentStatus, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status filter").
				WithDetails(map[string]any{"payment_status": raw})
		}
		filters.PaymentStatus = &paymentStatus
	}
	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid from timestamp")
		}
		filters.From = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "invalid to timestamp")
		}
		filters.To = &to
	}
	return filters, nil
}
