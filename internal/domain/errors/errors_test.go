package errors

import (
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	if ErrUserExists == nil {
		t.Error("ErrUserExists should not be nil")
	}
	if ErrInvalidCredentials == nil {
		t.Error("ErrInvalidCredentials should not be nil")
	}
	if ErrTokenRevoked == ErrInvalidToken {
		t.Error("ErrTokenRevoked must be distinct from ErrInvalidToken")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindInternal},
		{fmt.Errorf("boom"), KindInternal},
		{ErrInvalidInput, KindBadRequest},
		{ErrOTPRequired, KindBadRequest},
		{ErrOTPInvalid, KindBadRequest},
		{ErrUserNotActive, KindBadRequest},
		{ErrPasswordResetInvalid, KindBadRequest},
		{ErrInvalidCredentials, KindUnauthorized},
		{ErrMissingToken, KindUnauthorized},
		{ErrInvalidToken, KindUnauthorized},
		{ErrTokenRevoked, KindUnauthorized},
		{ErrUserNotFound, KindNotFound},
		{ErrUserExists, KindConflict},
		{fmt.Errorf("create: %w", ErrUserExists), KindConflict},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
