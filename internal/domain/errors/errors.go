package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status (see KindOf).
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUserExists           = errors.New("email already taken")
	ErrInvalidCredentials   = errors.New("email or password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserNotActive        = errors.New("user not active")
	ErrMissingToken         = errors.New("missing bearer token")
	ErrInvalidToken         = errors.New("token expired or invalid")
	ErrTokenRevoked         = errors.New("token expired or invalid")
	ErrOTPRequired          = errors.New("OTP and email are required")
	ErrOTPInvalid           = errors.New("OTP expired or incorrect")
	ErrPasswordResetInvalid = errors.New("key expired or incorrect")
)

// Kind classifies an error for the presentation layer.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// KindOf maps err (or anything it wraps) to its Kind. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUserNotActive),
		errors.Is(err, ErrOTPRequired),
		errors.Is(err, ErrOTPInvalid),
		errors.Is(err, ErrPasswordResetInvalid):
		return KindBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrMissingToken),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenRevoked):
		return KindUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrUserExists):
		return KindConflict
	default:
		return KindInternal
	}
}
