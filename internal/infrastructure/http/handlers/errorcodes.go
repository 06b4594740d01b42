package handlers

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeInvalidToken       = "invalid_token"
	ErrCodeSessionRevoked     = "session_revoked"
	ErrCodeOTPInvalid         = "otp_invalid"
	ErrCodeResetKeyInvalid    = "reset_key_invalid"
	ErrCodeAccountInactive    = "account_inactive"
	ErrCodeInternal           = "internal_error"
)
