package auth

import (
	"context"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type VerifyForgotPasswordInput struct {
	Key string
}

type VerifyForgotPasswordResult struct {
	Message string
}

// VerifyForgotPassword reports whether a reset link is still live. It never consumes the guard.
type VerifyForgotPassword struct {
	users  ports.UserRepository
	cache  ports.Cache
	issuer ports.TokenIssuer
}

func NewVerifyForgotPassword(users ports.UserRepository, cache ports.Cache, issuer ports.TokenIssuer) *VerifyForgotPassword {
	return &VerifyForgotPassword{users: users, cache: cache, issuer: issuer}
}

func (uc *VerifyForgotPassword) Execute(ctx context.Context, input VerifyForgotPasswordInput) (_ *VerifyForgotPasswordResult, err error) {
	ctx, span := startSpan(ctx, "verify_forgot_password")
	defer func() { endSpan(span, err) }()

	if err := checkResetGuard(ctx, uc.cache, input.Key); err != nil {
		return nil, err
	}
	userID, err := resetTokenUser(uc.issuer, input.Key)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internal("VERIFY_FORGOT_PASSWORD_FAILED", "lookup user", err)
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	return &VerifyForgotPasswordResult{Message: MsgResetKeyValid}, nil
}

// checkResetGuard fails unless the single-use guard for key is present.
func checkResetGuard(ctx context.Context, cache ports.Cache, key string) error {
	if key == "" {
		return domerrors.ErrPasswordResetInvalid
	}
	v, ok, err := cache.Get(ctx, resetGuardKey(key))
	if err != nil {
		return internal("RESET_GUARD_FAILED", "read reset guard", err)
	}
	if !ok || v != guardValue {
		return domerrors.ErrPasswordResetInvalid
	}
	return nil
}

func resetTokenUser(issuer ports.TokenIssuer, key string) (domain.UserID, error) {
	claims, err := issuer.ValidateResetToken(key)
	if err != nil {
		return domain.UserID{}, domerrors.ErrPasswordResetInvalid
	}
	id, err := domain.ParseUserID(claims.UserID)
	if err != nil {
		return domain.UserID{}, domerrors.ErrPasswordResetInvalid
	}
	return id, nil
}
