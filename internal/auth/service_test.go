package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgAuth "github.com/orderplus/orderplus-backend/pkg/auth"
	"github.com/orderplus/orderplus-backend/pkg/config"
	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/security"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "orderplus",
		ExpirationMinutes: 60,
	}
}

func newLoginService(t *testing.T) *Service {
	t.Helper()

	hash, err := security.HashPassword("s3cret", config.PasswordConfig{})
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[string]*models.User{
		"staff@example.com": {
			ID:           7,
			Name:         "Staff Member",
			Email:        "staff@example.com",
			Role:         enums.UserRoleStaff,
			PasswordHash: hash,
		},
	}}
	svc, err := NewService(repo, testJWTConfig())
	require.NoError(t, err)
	return svc
}

func TestLoginMintsToken(t *testing.T) {
	svc := newLoginService(t)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Staff@Example.com ",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.UserID)
	assert.Equal(t, enums.UserRoleStaff, result.Role)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, enums.UserRoleStaff, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newLoginService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "staff@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := newLoginService(t)

	_, unknownErr := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret",
	})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{
		Email:    "staff@example.com",
		Password: "wrong",
	})
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginValidation(t *testing.T) {
	svc := newLoginService(t)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "", Password: ""})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
