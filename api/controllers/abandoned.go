package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/api/validators"
	"github.com/orderplus/orderplus-backend/internal/abandoned"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
	"github.com/orderplus/orderplus-backend/pkg/pagination"
)

// AbandonedService captures incomplete carts and recovers them into orders.
type AbandonedService interface {
	Capture(ctx context.Context, input abandoned.CaptureInput) (*models.AbandonedOrder, error)
	Convert(ctx context.Context, input abandoned.ConvertInput) (*abandoned.ConvertResult, error)
	List(ctx context.Context, params pagination.Params) ([]models.AbandonedOrder, string, error)
}

type captureAbandonedRequest struct {
	Name         *string          `json:"name,omitempty"`
	Mobile       string           `json:"mobile" validate:"required"`
	Email        *string          `json:"email,omitempty" validate:"omitempty,email"`
	ProductName  string           `json:"product_name" validate:"required"`
	ProductImage *string          `json:"product_image,omitempty"`
	ProductPrice *decimal.Decimal `json:"product_price,omitempty"`
}

// CaptureAbandoned records an abandoned cart snapshot.
func CaptureAbandoned(svc AbandonedService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "abandoned service unavailable"))
			return
		}

		var payload captureAbandonedRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Capture(r.Context(), abandoned.CaptureInput{
			Name:         payload.Name,
			Mobile:       payload.Mobile,
			Email:        payload.Email,
			ProductName:  payload.ProductName,
			ProductImage: payload.ProductImage,
			ProductPrice: payload.ProductPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, snapshot)
	}
}

type convertAbandonedRequest struct {
	AbandonedID int64           `json:"abandoned_id" validate:"required,min=1"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	TotalPrice  decimal.Decimal `json:"total_price" validate:"required"`
}

type abandonedConvertedResponse struct {
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
}

// ConvertAbandoned turns a captured cart into a real order.
func ConvertAbandoned(svc AbandonedService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "abandoned service unavailable"))
			return
		}

		var payload convertAbandonedRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Convert(r.Context(), abandoned.ConvertInput{
			AbandonedID: payload.AbandonedID,
			Quantity:    payload.Quantity,
			TotalPrice:  payload.TotalPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, abandonedConvertedResponse{
			OrderID: result.OrderID,
			UserID:  result.UserID,
		})
	}
}

type listAbandonedResponse struct {
	Abandoned  []models.AbandonedOrder `json:"abandoned"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// ListAbandoned pages through captured carts for the back office.
func ListAbandoned(svc AbandonedService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "abandoned service unavailable"))
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

		rows, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listAbandonedResponse{Abandoned: rows, NextCursor: next})
	}
}
