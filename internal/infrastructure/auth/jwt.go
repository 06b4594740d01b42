package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

const (
	DefaultAccessTokenExpiry = time.Hour
	// ResetTokenExpiry is fixed; reset links are only good for ten minutes.
	ResetTokenExpiry = 10 * time.Minute
)

// Config holds the secrets and claims for both signing contexts.
type Config struct {
	AccessSecret string
	ResetSecret  string
	AccessExpiry time.Duration
	Issuer       string
	Audience     string
}

type signingContext struct {
	secret []byte
	expiry time.Duration
}

// TokenIssuer implements ports.TokenIssuer with HS256 and two independent secrets.
type TokenIssuer struct {
	access   signingContext
	reset    signingContext
	issuer   string
	audience string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

func NewTokenIssuer(cfg Config) (*TokenIssuer, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("access token secret is required")
	}
	if cfg.ResetSecret == "" {
		return nil, errors.New("reset token secret is required")
	}
	if cfg.AccessSecret == cfg.ResetSecret {
		return nil, errors.New("reset token secret must differ from access token secret")
	}
	if cfg.AccessExpiry <= 0 {
		cfg.AccessExpiry = DefaultAccessTokenExpiry
	}
	return &TokenIssuer{
		access:   signingContext{secret: []byte(cfg.AccessSecret), expiry: cfg.AccessExpiry},
		reset:    signingContext{secret: []byte(cfg.ResetSecret), expiry: ResetTokenExpiry},
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

func (t *TokenIssuer) IssueAccessToken(subject domain.TokenSubject) (string, error) {
	return t.sign(t.access, subject)
}

func (t *TokenIssuer) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	return t.verify(t.access, tokenString)
}

// IssueResetToken signs {id, email} only; the name never travels in a reset link.
func (t *TokenIssuer) IssueResetToken(subject domain.TokenSubject) (string, error) {
	return t.sign(t.reset, domain.TokenSubject{UserID: subject.UserID, Email: subject.Email})
}

func (t *TokenIssuer) ValidateResetToken(tokenString string) (*domain.TokenClaims, error) {
	return t.verify(t.reset, tokenString)
}

func (t *TokenIssuer) Decode(tokenString string) (*domain.TokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	return claims.toDomain(), nil
}

func (t *TokenIssuer) AccessTokenTTL() time.Duration {
	return t.access.expiry
}

func (t *TokenIssuer) sign(sc signingContext, subject domain.TokenSubject) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(), // tokens minted in the same second stay distinct
			Issuer:    t.issuer,
			Subject:   subject.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sc.expiry)),
		},
		UserID: subject.UserID,
		Email:  subject.Email,
		Name:   subject.Name,
	}
	if t.audience != "" {
		claims.Audience = jwt.ClaimStrings{t.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sc.secret)
}

func (t *TokenIssuer) verify(sc signingContext, tokenString string) (*domain.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return sc.secret, nil
	}, opts...)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, domerrors.ErrInvalidToken
	}
	return claims.toDomain(), nil
}

func (c *tokenClaims) toDomain() *domain.TokenClaims {
	out := &domain.TokenClaims{
		TokenSubject: domain.TokenSubject{UserID: c.UserID, Email: c.Email, Name: c.Name},
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
