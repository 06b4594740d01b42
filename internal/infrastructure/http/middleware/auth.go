package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/otpgate/internal/application/auth"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

// Authenticator is satisfied by *auth.Authenticate.
type Authenticator interface {
	Execute(ctx context.Context, input auth.AuthenticateInput) (*auth.AuthenticateResult, error)
}

// AuthValidator rejects requests without a live bearer token and puts the claims in context
// (see ClaimsFromContext).
type AuthValidator struct {
	authenticate Authenticator
	log          zerolog.Logger
}

func NewAuthValidator(authenticate Authenticator, log zerolog.Logger) *AuthValidator {
	return &AuthValidator{authenticate: authenticate, log: log}
}

func (m *AuthValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := m.authenticate.Execute(r.Context(), auth.AuthenticateInput{
			Authorization: r.Header.Get("Authorization"),
		})
		if err != nil {
			if errors.Is(err, domerrors.ErrTokenRevoked) {
				writeErr(w, http.StatusUnauthorized, "session_revoked", err.Error())
				return
			}
			if domerrors.KindOf(err) == domerrors.KindUnauthorized {
				writeErr(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			m.log.Error().Err(err).Msg("authenticate failed")
			writeErr(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), res.Claims)))
	})
}

func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": errCode})
}
