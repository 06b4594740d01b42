package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/oops"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
	"github.com/amirhosseinghanipour/otpgate/internal/infrastructure/persistence/db"
)

type UserRepository struct {
	q *db.Queries
}

func NewUserRepository(conn db.DBTX) *UserRepository {
	return &UserRepository{q: db.New(conn)}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.q.CreateUser(ctx, db.CreateUserParams{
		ID:           user.ID.UUID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		IsActive:     user.IsActive,
		Role:         string(user.Role),
		Phone:        optionalText(user.Phone),
		Address:      optionalText(user.Address),
		Image:        optionalText(user.Image),
		AccountType:  string(user.AccountType),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domerrors.ErrUserExists
	}
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").With("operation", "insert user").Wrap(err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.q.GetUserByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("operation", "get user by email").Wrap(err)
	}
	return dbUserToDomain(u), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	u, err := r.q.GetUserByID(ctx, userID.UUID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("operation", "get user by id").Wrap(err)
	}
	return dbUserToDomain(u), nil
}

func (r *UserRepository) SetActive(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.q.ActivateUser(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").With("operation", "activate user").Wrap(err)
	}
	return dbUserToDomain(u), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID domain.UserID, passwordHash string) (*domain.User, error) {
	u, err := r.q.UpdateUserPassword(ctx, db.UpdateUserPasswordParams{ID: userID.UUID, PasswordHash: passwordHash})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").With("operation", "update password").Wrap(err)
	}
	return dbUserToDomain(u), nil
}

func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func dbUserToDomain(u db.User) *domain.User {
	return &domain.User{
		ID:           domain.NewUserID(u.ID),
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		Role:         domain.Role(u.Role),
		Phone:        u.Phone.String,
		Address:      u.Address.String,
		Image:        u.Image.String,
		AccountType:  domain.AccountType(u.AccountType),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)
