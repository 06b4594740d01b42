package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type RegisterUserInput struct {
	Email    string
	Password string
	Profile  domain.Profile
}

type RegisterUserResult struct {
	Message string
	User    *domain.User
}

// RegisterUser creates a pending account and mails its first OTP.
type RegisterUser struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	otps   *OTPIssuer
}

func NewRegisterUser(users ports.UserRepository, hasher ports.PasswordHasher, otps *OTPIssuer) *RegisterUser {
	return &RegisterUser{users: users, hasher: hasher, otps: otps}
}

func (uc *RegisterUser) Execute(ctx context.Context, input RegisterUserInput) (_ *RegisterUserResult, err error) {
	ctx, span := startSpan(ctx, "register")
	defer func() { endSpan(span, err) }()

	email := strings.TrimSpace(input.Email)
	if email == "" || !passwordAcceptable(input.Password) {
		return nil, domerrors.ErrInvalidInput
	}
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, internal("REGISTER_FAILED", "lookup user", err)
	}
	if existing != nil {
		return nil, domerrors.ErrUserExists
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, internal("REGISTER_FAILED", "hash password", err)
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        email,
		Name:         input.Profile.Name,
		PasswordHash: hash,
		IsActive:     false,
		Role:         domain.RoleUser,
		Phone:        input.Profile.Phone,
		Address:      input.Profile.Address,
		Image:        input.Profile.Image,
		AccountType:  domain.AccountTypeLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, internal("REGISTER_FAILED", "create user", err)
	}
	if err := uc.otps.Issue(ctx, user.Email); err != nil {
		return nil, err
	}
	return &RegisterUserResult{Message: MsgRegistered, User: user}, nil
}
