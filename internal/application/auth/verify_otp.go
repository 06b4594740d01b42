package auth

import (
	"context"
	"strings"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type VerifyOTPInput struct {
	Email string
	OTP   string
}

type VerifyOTPResult struct {
	Message     string
	AccessToken string
	ExpiresIn   int64
	User        *domain.User
}

// VerifyOTP consumes the emailed code, activates the account and signs the user in.
type VerifyOTP struct {
	users  ports.UserRepository
	cache  ports.Cache
	issuer ports.TokenIssuer
}

func NewVerifyOTP(users ports.UserRepository, cache ports.Cache, issuer ports.TokenIssuer) *VerifyOTP {
	return &VerifyOTP{users: users, cache: cache, issuer: issuer}
}

func (uc *VerifyOTP) Execute(ctx context.Context, input VerifyOTPInput) (_ *VerifyOTPResult, err error) {
	ctx, span := startSpan(ctx, "verify_otp")
	defer func() { endSpan(span, err) }()

	email := strings.TrimSpace(input.Email)
	if email == "" || input.OTP == "" {
		return nil, domerrors.ErrOTPRequired
	}
	key := otpKey(email)
	stored, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		return nil, internal("VERIFY_OTP_FAILED", "read otp", err)
	}
	if !ok || !otpEqual(stored, input.OTP) {
		return nil, domerrors.ErrOTPInvalid
	}
	// Only the request whose delete removed the entry may proceed.
	deleted, err := uc.cache.Delete(ctx, key)
	if err != nil {
		return nil, internal("VERIFY_OTP_FAILED", "consume otp", err)
	}
	if !deleted {
		return nil, domerrors.ErrOTPInvalid
	}
	user, err := uc.users.SetActive(ctx, email)
	if err != nil {
		return nil, internal("VERIFY_OTP_FAILED", "activate user", err)
	}
	token, err := uc.issuer.IssueAccessToken(domain.SubjectOf(user))
	if err != nil {
		return nil, internal("VERIFY_OTP_FAILED", "issue access token", err)
	}
	return &VerifyOTPResult{
		Message:     MsgVerified,
		AccessToken: token,
		ExpiresIn:   int64(uc.issuer.AccessTokenTTL().Seconds()),
		User:        user,
	}, nil
}
