package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	Role         string
	Phone        pgtype.Text
	Address      pgtype.Text
	Image        pgtype.Text
	AccountType  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
