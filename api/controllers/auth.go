package controllers

import (
	"context"
	"net/http"

	"github.com/orderplus/orderplus-backend/api/responses"
	"github.com/orderplus/orderplus-backend/api/validators"
	"github.com/orderplus/orderplus-backend/internal/auth"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/logger"
)

// AuthService verifies credentials and mints access tokens.
type AuthService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a back-office user.
func Login(svc AuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginRequest{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
