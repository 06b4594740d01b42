package ports

import (
	"context"

	"github.com/amirhosseinghanipour/otpgate/internal/domain"
)

// UserRepository defines persistence for user credentials.
// Lookups return (nil, nil) when no user matches.
type UserRepository interface {
	// Create stores a new user; returns errors.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
	// SetActive marks the account verified; returns errors.ErrUserNotFound when absent.
	SetActive(ctx context.Context, email string) (*domain.User, error)
	// UpdatePassword replaces the password hash; returns errors.ErrUserNotFound when absent.
	UpdatePassword(ctx context.Context, userID domain.UserID, passwordHash string) (*domain.User, error)
}
