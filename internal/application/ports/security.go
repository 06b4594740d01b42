package ports

import (
	"time"

	"github.com/amirhosseinghanipour/otpgate/internal/domain"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer signs and validates JWTs. Access and reset tokens use distinct secrets.
// Validation failures are reported as errors.ErrInvalidToken only.
type TokenIssuer interface {
	IssueAccessToken(subject domain.TokenSubject) (string, error)
	ValidateAccessToken(tokenString string) (*domain.TokenClaims, error)
	IssueResetToken(subject domain.TokenSubject) (string, error)
	ValidateResetToken(tokenString string) (*domain.TokenClaims, error)
	// Decode reads claims without checking the signature. Use only for bookkeeping.
	Decode(tokenString string) (*domain.TokenClaims, error)
	AccessTokenTTL() time.Duration
}
