// Package security provides password hashing for stored credentials.
package security

import (
	"errors"
	"fmt"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = errors.New("password cannot be empty")

// ErrPasswordTooLong is returned for passwords bcrypt would truncate or refuse.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// Scheme names a password hashing algorithm.
type Scheme string

const (
	SchemeBcrypt   Scheme = "bcrypt"
	SchemeArgon2id Scheme = "argon2id"
)

type schemeHasher interface {
	ports.PasswordHasher
	Recognizes(hash string) bool
}

// MultiHasher hashes with the configured scheme and verifies hashes of any known scheme,
// so switching PASSWORD_HASHER does not invalidate existing credentials.
type MultiHasher struct {
	primary schemeHasher
	known   []schemeHasher
}

// NewMultiHasher builds a MultiHasher whose new hashes use primary.
func NewMultiHasher(primary Scheme, bcryptCost int, argon Argon2Params) (*MultiHasher, error) {
	b := NewBcryptHasher(bcryptCost)
	a := NewArgon2Hasher(argon)
	m := &MultiHasher{known: []schemeHasher{b, a}}
	switch primary {
	case SchemeBcrypt, "":
		m.primary = b
	case SchemeArgon2id:
		m.primary = a
	default:
		return nil, fmt.Errorf("unknown password hasher %q", primary)
	}
	return m, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *MultiHasher) Verify(password, hash string) bool {
	for _, h := range m.known {
		if h.Recognizes(hash) {
			return h.Verify(password, hash)
		}
	}
	return false
}

var (
	_ ports.PasswordHasher = (*MultiHasher)(nil)
	_ ports.PasswordHasher = (*BcryptHasher)(nil)
	_ ports.PasswordHasher = (*Argon2Hasher)(nil)
)
