package domain

import "time"

// TokenSubject is the identity embedded in signed tokens.
// Reset tokens leave Name empty.
type TokenSubject struct {
	UserID string
	Email  string
	Name   string
}

// SubjectOf builds the token subject for a user.
func SubjectOf(u *User) TokenSubject {
	return TokenSubject{UserID: u.ID.String(), Email: u.Email, Name: u.Name}
}

// TokenClaims is the payload read back from a token.
type TokenClaims struct {
	TokenSubject
	ExpiresAt time.Time
}
