package auth

import (
	"github.com/samber/oops"

	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

// Result messages returned to clients.
const (
	MsgRegistered       = "User created successfully. Please verify your account using the OTP sent to your email."
	MsgNotActive        = "Your account is not active. Please verify your account using the OTP sent to your email."
	MsgLoginSuccessful  = "Login successful"
	MsgVerified         = "Verified successful"
	MsgLogoutSuccessful = "Logout successful"
	MsgCheckEmail       = "Please check your email"
	MsgResetKeyValid    = "Success"
	MsgPasswordUpdated  = "Password updated successfully"
)

// internal wraps infrastructure failures with an oops code. Domain sentinels pass through
// untouched so callers can classify them with errors.KindOf.
func internal(code, operation string, err error) error {
	if err == nil || domerrors.KindOf(err) != domerrors.KindInternal {
		return err
	}
	return oops.Code(code).With("operation", operation).Wrap(err)
}
