package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

var userCols = []string{"id", "email", "name", "password_hash", "is_active", "role", "phone", "address", "image", "account_type", "created_at", "updated_at"}

var (
	testID  = uuid.MustParse("0d9c7a9e-4d1f-4a4e-9a2b-2f1c3e5d7b90")
	testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func userRow(active bool) *pgxmock.Rows {
	return pgxmock.NewRows(userCols).AddRow(
		testID, "a@x.com", "Ada", "$2a$10$hash", active, "USER",
		pgtype.Text{String: "+100", Valid: true}, pgtype.Text{}, pgtype.Text{},
		"LOCAL", testNow, testNow,
	)
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		mock.Close()
	})
	return mock
}

func TestUserRepository_Create(t *testing.T) {
	user := &domain.User{
		ID:           domain.NewUserID(testID),
		Email:        "a@x.com",
		Name:         "Ada",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleUser,
		Phone:        "+100",
		AccountType:  domain.AccountTypeLocal,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	args := []interface{}{
		testID, "a@x.com", "Ada", "$2a$10$hash", false, "USER",
		pgtype.Text{String: "+100", Valid: true}, pgtype.Text{}, pgtype.Text{},
		"LOCAL", testNow, testNow,
	}

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		anyErr  bool
	}{
		{
			name: "inserted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).WithArgs(args...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate email",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).WithArgs(args...).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: domerrors.ErrUserExists,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).WithArgs(args...).
					WillReturnError(errors.New("connection refused"))
			},
			anyErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setup(mock)

			err := NewUserRepository(mock).Create(context.Background(), user)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection refused")
				assert.Equal(t, domerrors.KindInternal, domerrors.KindOf(err))
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).WithArgs("a@x.com").
			WillReturnRows(userRow(true))

		u, err := NewUserRepository(mock).GetByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, testID, u.ID.UUID)
		assert.True(t, u.IsActive)
		assert.Equal(t, domain.RoleUser, u.Role)
		assert.Equal(t, "+100", u.Phone)
		assert.Empty(t, u.Address)
		assert.Equal(t, domain.AccountTypeLocal, u.AccountType)
	})

	t.Run("absent", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).WithArgs("nobody@x.com").
			WillReturnRows(pgxmock.NewRows(userCols))

		u, err := NewUserRepository(mock).GetByEmail(context.Background(), "nobody@x.com")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).WithArgs("a@x.com").
			WillReturnError(errors.New("timeout"))

		_, err := NewUserRepository(mock).GetByEmail(context.Background(), "a@x.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).WithArgs(testID).
		WillReturnRows(userRow(false))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).WithArgs(testID).
		WillReturnRows(pgxmock.NewRows(userCols))

	repo := NewUserRepository(mock)
	u, err := repo.GetByID(context.Background(), domain.NewUserID(testID))
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	u, err = repo.GetByID(context.Background(), domain.NewUserID(testID))
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepository_SetActive(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`UPDATE users SET is_active = TRUE`).WithArgs("a@x.com").
		WillReturnRows(userRow(true))
	mock.ExpectQuery(`UPDATE users SET is_active = TRUE`).WithArgs("nobody@x.com").
		WillReturnRows(pgxmock.NewRows(userCols))

	repo := NewUserRepository(mock)
	u, err := repo.SetActive(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	_, err = repo.SetActive(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, domerrors.ErrUserNotFound)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`UPDATE users SET password_hash = \$2`).WithArgs(testID, "$2a$10$new").
		WillReturnRows(userRow(true))
	mock.ExpectQuery(`UPDATE users SET password_hash = \$2`).WithArgs(testID, "$2a$10$new").
		WillReturnRows(pgxmock.NewRows(userCols))

	repo := NewUserRepository(mock)
	u, err := repo.UpdatePassword(context.Background(), domain.NewUserID(testID), "$2a$10$new")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = repo.UpdatePassword(context.Background(), domain.NewUserID(testID), "$2a$10$new")
	assert.ErrorIs(t, err, domerrors.ErrUserNotFound)
}
