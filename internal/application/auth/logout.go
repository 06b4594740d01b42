package auth

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type LogoutInput struct {
	// Authorization is the raw Authorization header value.
	Authorization string
}

type LogoutResult struct {
	Message string
	UserID  string
}

// Logout blacklists the bearer token for the rest of its lifetime, capped at the access token TTL.
type Logout struct {
	cache  ports.Cache
	issuer ports.TokenIssuer
	now    func() time.Time
}

func NewLogout(cache ports.Cache, issuer ports.TokenIssuer) *Logout {
	return &Logout{cache: cache, issuer: issuer, now: time.Now}
}

func (uc *Logout) Execute(ctx context.Context, input LogoutInput) (_ *LogoutResult, err error) {
	ctx, span := startSpan(ctx, "logout")
	defer func() { endSpan(span, err) }()

	token, err := BearerToken(input.Authorization)
	if err != nil {
		return nil, err
	}
	if len(token) > maxTokenLength {
		return nil, domerrors.ErrInvalidToken
	}
	claims, err := uc.issuer.Decode(token)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	if claims.ExpiresAt.IsZero() {
		return nil, domerrors.ErrInvalidToken
	}
	result := &LogoutResult{Message: MsgLogoutSuccessful, UserID: claims.UserID}
	remaining := claims.ExpiresAt.Sub(uc.now())
	if remaining <= 0 {
		// Already expired; nothing can use it.
		return result, nil
	}
	// Decode skips the signature, so exp is untrusted. No token we issued outlives the access TTL.
	remaining = min(remaining, uc.issuer.AccessTokenTTL())
	if err := uc.cache.Set(ctx, blacklistKey(token), guardValue, remaining); err != nil {
		return nil, internal("LOGOUT_FAILED", "blacklist token", err)
	}
	return result, nil
}
