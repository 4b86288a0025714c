package controllers

import (
	"context"
	"net/http"

	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
)

// ProductLister serves the public storefront catalog.
type ProductLister interface {
	ListLatest(ctx context.Context) ([]models.Product, error)
}

type listProductsResponse struct {
	Products []models.Product `json:"products"`
}

// ListProducts returns the latest active catalog products. Imported
// products created by order ingestion never show up here.
func ListProducts(svc ProductLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		products, err := svc.ListLatest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listProductsResponse{Products: products})
	}
}
