package auth

import (
	"strings"

	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

const bearerPrefix = "bearer "

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", domerrors.ErrMissingToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", domerrors.ErrMissingToken
	}
	return token, nil
}
