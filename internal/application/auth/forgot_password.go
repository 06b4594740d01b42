package auth

import (
	"context"
	"strings"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type ForgotPasswordInput struct {
	Email string
}

type ForgotPasswordResult struct {
	Message string
	UserID  string
}

// ForgotPassword mints a reset token, records its single-use guard and mails the link.
// Every call mints an independent token; earlier ones stay usable until consumed or expired.
type ForgotPassword struct {
	users      ports.UserRepository
	cache      ports.Cache
	issuer     ports.TokenIssuer
	dispatcher *Dispatcher
}

func NewForgotPassword(users ports.UserRepository, cache ports.Cache, issuer ports.TokenIssuer, dispatcher *Dispatcher) *ForgotPassword {
	return &ForgotPassword{users: users, cache: cache, issuer: issuer, dispatcher: dispatcher}
}

func (uc *ForgotPassword) Execute(ctx context.Context, input ForgotPasswordInput) (_ *ForgotPasswordResult, err error) {
	ctx, span := startSpan(ctx, "forgot_password")
	defer func() { endSpan(span, err) }()

	user, err := uc.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, internal("FORGOT_PASSWORD_FAILED", "lookup user", err)
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domerrors.ErrUserNotActive
	}
	token, err := uc.issuer.IssueResetToken(domain.SubjectOf(user))
	if err != nil {
		return nil, internal("FORGOT_PASSWORD_FAILED", "issue reset token", err)
	}
	if err := uc.cache.Set(ctx, resetGuardKey(token), guardValue, ResetTokenTTL); err != nil {
		return nil, internal("FORGOT_PASSWORD_FAILED", "store reset guard", err)
	}
	uc.dispatcher.PasswordResetLink(ctx, user.Email, token)
	return &ForgotPasswordResult{Message: MsgCheckEmail, UserID: user.ID.String()}, nil
}
