package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/api/validators"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
)

// FraudChecker wraps the courier scoring gateway.
type FraudChecker interface {
	Check(ctx context.Context, phone string) (json.RawMessage, error)
}

type fraudCheckRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// CheckFraud proxies a phone number to the courier scoring API and returns
// the provider payload untouched.
func CheckFraud(svc FraudChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fraud check unavailable"))
			return
		}

		var payload fraudCheckRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Check(r.Context(), payload.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
