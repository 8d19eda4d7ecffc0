package ports

import (
	"context"

	"github.com/stayhive/marketplace-api/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// untouched (merge semantics).
type ProfileUpdate struct {
	Name  *string
	Phone *string
	Bio   *string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
}
