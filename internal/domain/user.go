package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// ParseUserID parses the canonical string form produced by String.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID{UUID: id}, nil
}

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// Role is the authorization role of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// AccountType records how the account was created.
type AccountType string

const (
	AccountTypeLocal  AccountType = "LOCAL"
	AccountTypeGoogle AccountType = "GOOGLE"
)

// User is a registered account. IsActive stays false until the emailed OTP is verified.
type User struct {
	ID           UserID
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	Role         Role
	Phone        string
	Address      string
	Image        string
	AccountType  AccountType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Profile is the optional profile data supplied at registration.
type Profile struct {
	Name    string
	Phone   string
	Address string
	Image   string
}
