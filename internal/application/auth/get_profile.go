package auth

import (
	"context"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type GetProfileInput struct {
	UserID string
}

type GetProfileResult struct {
	User *domain.User
}

type GetProfile struct {
	users ports.UserRepository
}

func NewGetProfile(users ports.UserRepository) *GetProfile {
	return &GetProfile{users: users}
}

func (uc *GetProfile) Execute(ctx context.Context, input GetProfileInput) (_ *GetProfileResult, err error) {
	ctx, span := startSpan(ctx, "get_profile")
	defer func() { endSpan(span, err) }()

	id, err := domain.ParseUserID(input.UserID)
	if err != nil {
		return nil, domerrors.ErrUserNotFound
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, internal("GET_PROFILE_FAILED", "lookup user", err)
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return &GetProfileResult{User: user}, nil
}
