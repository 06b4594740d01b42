package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

// writeErr sends JSON { "error": message, "code": errCode }. If errCode is empty, a default is used from code.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	if errCode == "" {
		errCode = defaultErrCode(code)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}

func defaultErrCode(httpCode int) string {
	switch httpCode {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	default:
		return ErrCodeInternal
	}
}

// writeDomainErr maps a use case error to its status. Internal errors are logged
// and hidden from the client.
func writeDomainErr(w http.ResponseWriter, log zerolog.Logger, err error) {
	var status int
	switch domerrors.KindOf(err) {
	case domerrors.KindBadRequest:
		status = http.StatusBadRequest
	case domerrors.KindUnauthorized:
		status = http.StatusUnauthorized
	case domerrors.KindNotFound:
		status = http.StatusNotFound
	case domerrors.KindConflict:
		status = http.StatusConflict
	default:
		log.Error().Err(err).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	writeErr(w, status, errCodeFor(err), err.Error())
}

func errCodeFor(err error) string {
	switch {
	case errors.Is(err, domerrors.ErrInvalidCredentials):
		return ErrCodeInvalidCredentials
	case errors.Is(err, domerrors.ErrTokenRevoked):
		return ErrCodeSessionRevoked
	case errors.Is(err, domerrors.ErrInvalidToken):
		return ErrCodeInvalidToken
	case errors.Is(err, domerrors.ErrOTPInvalid), errors.Is(err, domerrors.ErrOTPRequired):
		return ErrCodeOTPInvalid
	case errors.Is(err, domerrors.ErrPasswordResetInvalid):
		return ErrCodeResetKeyInvalid
	case errors.Is(err, domerrors.ErrUserNotActive):
		return ErrCodeAccountInactive
	}
	return ""
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
