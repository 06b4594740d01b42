package auth

import (
	"context"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type ResetPasswordInput struct {
	Key      string
	Password string
}

type ResetPasswordResult struct {
	Message string
	UserID  string
}

// ResetPassword consumes a reset token and replaces the password. It does not sign the user in.
type ResetPassword struct {
	users      ports.UserRepository
	cache      ports.Cache
	issuer     ports.TokenIssuer
	hasher     ports.PasswordHasher
	dispatcher *Dispatcher
}

func NewResetPassword(users ports.UserRepository, cache ports.Cache, issuer ports.TokenIssuer, hasher ports.PasswordHasher, dispatcher *Dispatcher) *ResetPassword {
	return &ResetPassword{users: users, cache: cache, issuer: issuer, hasher: hasher, dispatcher: dispatcher}
}

func (uc *ResetPassword) Execute(ctx context.Context, input ResetPasswordInput) (_ *ResetPasswordResult, err error) {
	ctx, span := startSpan(ctx, "reset_password")
	defer func() { endSpan(span, err) }()

	// Checked before the guard so a rejected password does not spend the link.
	if !passwordAcceptable(input.Password) {
		return nil, domerrors.ErrInvalidInput
	}
	if err := checkResetGuard(ctx, uc.cache, input.Key); err != nil {
		return nil, err
	}
	// The guard is spent before anything else can fail; a replay never gets past here.
	deleted, err := uc.cache.Delete(ctx, resetGuardKey(input.Key))
	if err != nil {
		return nil, internal("RESET_PASSWORD_FAILED", "consume reset guard", err)
	}
	if !deleted {
		return nil, domerrors.ErrPasswordResetInvalid
	}
	userID, err := resetTokenUser(uc.issuer, input.Key)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internal("RESET_PASSWORD_FAILED", "lookup user", err)
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, internal("RESET_PASSWORD_FAILED", "hash password", err)
	}
	user, err = uc.users.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return nil, internal("RESET_PASSWORD_FAILED", "update password", err)
	}
	uc.dispatcher.PasswordChanged(ctx, user.Name, user.Email)
	return &ResetPasswordResult{Message: MsgPasswordUpdated, UserID: user.ID.String()}, nil
}
