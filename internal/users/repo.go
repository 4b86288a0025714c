package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/orderplus/orderplus-backend/pkg/db/models"
	"github.com/orderplus/orderplus-backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateParams carries the identity fields seen by an intake channel.
type FindOrCreateParams struct {
	Name         string
	Email        string
	Mobile       string
	PasswordHash string
}

// FindOrCreateByEmail resolves the user for an email, creating a customer row
// on first sight. An existing user's name and mobile are left as stored;
// identity is first-write-wins.
func (r *Repository) FindOrCreateByEmail(ctx context.Context, params FindOrCreateParams) (*models.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	existing, err := r.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user := models.User{
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		Mobile:       strings.TrimSpace(params.Mobile),
		Role:         enums.UserRoleCustomer,
		PasswordHash: params.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, true, nil
}
