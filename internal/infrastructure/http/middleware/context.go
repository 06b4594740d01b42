package middleware

import (
	"context"

	"github.com/amirhosseinghanipour/otpgate/internal/domain"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// WithAuth injects the authenticated claims into the context.
func WithAuth(ctx context.Context, claims *domain.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, or nil.
func ClaimsFromContext(ctx context.Context) *domain.TokenClaims {
	c, _ := ctx.Value(claimsContextKey).(*domain.TokenClaims)
	return c
}
