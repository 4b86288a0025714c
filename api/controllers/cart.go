package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/api/validators"
	"github.com/orderplus/orderplus-backend/internal/cart"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
)

// CartTokenHeader carries the opaque cart token on every cart request and
// response. A missing token on a write mints a new cart.
const CartTokenHeader = "X-Cart-Token"

// CartStore is the server-side cart surface.
type CartStore interface {
	NewToken() string
	Get(ctx context.Context, token string) ([]cart.Line, error)
	Add(ctx context.Context, token string, line cart.Line) ([]cart.Line, error)
	Remove(ctx context.Context, token string, productID int64) ([]cart.Line, error)
	Clear(ctx context.Context, token string) error
}

type cartResponse struct {
	Token string      `json:"token"`
	Items []cart.Line `json:"items"`
}

// GetCart returns the cart for the token in the request header.
func GetCart(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		token := r.Header.Get(CartTokenHeader)
		if token == "" {
			responses.WriteSuccess(w, cartResponse{Items: []cart.Line{}})
			return
		}

		lines, err := store.Get(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(CartTokenHeader, token)
		responses.WriteSuccess(w, cartResponse{Token: token, Items: lines})
	}
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// AddCartItem merges a line into the cart, minting a token when the caller
// has none yet.
func AddCartItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := r.Header.Get(CartTokenHeader)
		if token == "" {
			token = store.NewToken()
		}

		lines, err := store.Add(r.Context(), token, cart.Line{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(CartTokenHeader, token)
		responses.WriteSuccess(w, cartResponse{Token: token, Items: lines})
	}
}

// RemoveCartItem drops one product from the cart.
func RemoveCartItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
		if err != nil || productID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		token := r.Header.Get(CartTokenHeader)
		lines, err := store.Remove(r.Context(), token, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(CartTokenHeader, token)
		responses.WriteSuccess(w, cartResponse{Token: token, Items: lines})
	}
}

// ClearCart deletes the cart entirely.
func ClearCart(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		token := r.Header.Get(CartTokenHeader)
		if err := store.Clear(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"cleared": true})
	}
}
