package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
)

// LandingPageReader serves marketing landing pages.
type LandingPageReader interface {
	List(ctx context.Context) ([]models.LandingPage, error)
	FindByID(ctx context.Context, id int64) (*models.LandingPage, error)
}

type listPagesResponse struct {
	Pages []models.LandingPage `json:"pages"`
}

// ListPages returns all landing pages newest first.
func ListPages(svc LandingPageReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "landing pages unavailable"))
			return
		}

		pages, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list landing pages"))
			return
		}

		responses.WriteSuccess(w, listPagesResponse{Pages: pages})
	}
}

// GetPage returns one landing page with its product.
func GetPage(svc LandingPageReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "landing pages unavailable"))
			return
		}

		pageID, err := strconv.ParseInt(chi.URLParam(r, "pageId"), 10, 64)
		if err != nil || pageID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid page id"))
			return
		}

		page, err := svc.FindByID(r.Context(), pageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "landing page not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load landing page"))
			return
		}

		responses.WriteSuccess(w, page)
	}
}
