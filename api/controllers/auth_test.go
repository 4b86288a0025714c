package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/orderplus/orderplus-backend/internal/auth"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
)

type stubAuthService struct {
	lastRequest *auth.LoginRequest
	err         error
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastRequest = &req
	if s.err != nil {
		return nil, s.err
	}
	return &auth.LoginResponse{
		AccessToken: "token-abc",
		UserID:      7,
		Name:        "Staff Member",
		Role:        enums.UserRoleStaff,
	}, nil
}

func TestLogin(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAuthService{}
		body := `{"email": "staff@example.com", "password": "s3cret"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		Login(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastRequest == nil || stub.lastRequest.Email != "staff@example.com" {
			t.Fatalf("unexpected login request: %+v", stub.lastRequest)
		}

		var envelope struct {
			Data auth.LoginResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.AccessToken != "token-abc" || envelope.Data.UserID != 7 {
			t.Fatalf("unexpected payload: %+v", envelope.Data)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		stub := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
		body := `{"email": "staff@example.com", "password": "wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		Login(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"email": "x@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		Login(&stubAuthService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
