package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries a token only for active accounts. Pending accounts get
// VerificationRequired and a fresh OTP instead.
type LoginResult struct {
	Message              string
	AccessToken          string
	ExpiresIn            int64
	User                 *domain.User
	VerificationRequired bool
}

type Login struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	otps   *OTPIssuer

	dummyOnce sync.Once
	dummyHash string
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, issuer ports.TokenIssuer, otps *OTPIssuer) *Login {
	return &Login{users: users, hasher: hasher, issuer: issuer, otps: otps}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (_ *LoginResult, err error) {
	ctx, span := startSpan(ctx, "login")
	defer func() { endSpan(span, err) }()

	user, err := uc.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, internal("LOGIN_FAILED", "lookup user", err)
	}
	if !uc.checkPassword(input.Password, user) {
		return nil, domerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		if err := uc.otps.Issue(ctx, user.Email); err != nil {
			return nil, err
		}
		return &LoginResult{Message: MsgNotActive, User: user, VerificationRequired: true}, nil
	}
	token, err := uc.issuer.IssueAccessToken(domain.SubjectOf(user))
	if err != nil {
		return nil, internal("LOGIN_FAILED", "issue access token", err)
	}
	return &LoginResult{
		Message:     MsgLoginSuccessful,
		AccessToken: token,
		ExpiresIn:   int64(uc.issuer.AccessTokenTTL().Seconds()),
		User:        user,
	}, nil
}

// checkPassword hashes against a throwaway hash for unknown emails so both
// failure paths cost the same.
func (uc *Login) checkPassword(password string, user *domain.User) bool {
	if user == nil {
		uc.dummyOnce.Do(func() {
			uc.dummyHash, _ = uc.hasher.Hash("otpgate-unknown-account")
		})
		uc.hasher.Verify(password, uc.dummyHash)
		return false
	}
	return uc.hasher.Verify(password, user.PasswordHash)
}
