package ports

import "context"

// Notifier delivers messages out-of-band (email).
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
	SendPasswordResetLink(ctx context.Context, email, token string) error
	SendPasswordChanged(ctx context.Context, name, email string) error
}
