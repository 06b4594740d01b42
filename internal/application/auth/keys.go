package auth

import (
	"time"

	"github.com/amirhosseinghanipour/otpgate/internal/domain"
)

const (
	// DefaultOTPTTL is how long an emailed code stays usable.
	DefaultOTPTTL = 5 * time.Minute
	// ResetTokenTTL matches the reset token's own expiry.
	ResetTokenTTL = 10 * time.Minute

	guardValue = "1"

	// maxTokenLength bounds what logout will store as a blacklist key.
	maxTokenLength = 4096
)

// passwordAcceptable reports whether password can be hashed by every supported scheme.
func passwordAcceptable(password string) bool {
	return password != "" && len(password) <= domain.MaxPasswordBytes
}

func otpKey(email string) string        { return "otp:" + email }
func blacklistKey(token string) string  { return "blacklist:" + token }
func resetGuardKey(token string) string { return "resetPassword:" + token }
