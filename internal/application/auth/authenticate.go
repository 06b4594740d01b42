package auth

import (
	"context"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type AuthenticateInput struct {
	Authorization string
}

type AuthenticateResult struct {
	Token  string
	Claims *domain.TokenClaims
}

// Authenticate admits a bearer token that is not blacklisted and carries a valid signature.
// The blacklist is consulted first: a revoked token is rejected however valid it looks.
type Authenticate struct {
	cache  ports.Cache
	issuer ports.TokenIssuer
}

func NewAuthenticate(cache ports.Cache, issuer ports.TokenIssuer) *Authenticate {
	return &Authenticate{cache: cache, issuer: issuer}
}

func (uc *Authenticate) Execute(ctx context.Context, input AuthenticateInput) (_ *AuthenticateResult, err error) {
	ctx, span := startSpan(ctx, "authenticate")
	defer func() { endSpan(span, err) }()

	token, err := BearerToken(input.Authorization)
	if err != nil {
		return nil, err
	}
	_, revoked, err := uc.cache.Get(ctx, blacklistKey(token))
	if err != nil {
		return nil, internal("AUTHENTICATE_FAILED", "read blacklist", err)
	}
	if revoked {
		return nil, domerrors.ErrTokenRevoked
	}
	claims, err := uc.issuer.ValidateAccessToken(token)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	return &AuthenticateResult{Token: token, Claims: claims}, nil
}
