package queue

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultResetBaseURL is used when PASSWORD_RESET_BASE_URL is unset.
const DefaultResetBaseURL = "https://example.com/reset-password"

// resetLinkLife matches the reset token expiry.
const resetLinkLife = 10 * time.Minute

// ResetLinks turns a reset token into the link mailed to the user.
type ResetLinks struct {
	BaseURL string
}

func (r ResetLinks) URL(token string) string {
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = DefaultResetBaseURL
	}
	return base + "/" + url.PathEscape(token)
}

// LogMailer "delivers" email by writing it to the log. Configure SMTP for real email.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) DeliverOTP(ctx context.Context, email, code string) error {
	m.log.Info().
		Str("email", email).
		Str("otp", code).
		Msg("otp email (log only; configure SMTP for real email)")
	return nil
}

func (m *LogMailer) DeliverPasswordReset(ctx context.Context, email, resetURL string) error {
	m.log.Info().
		Str("email", email).
		Str("reset_url", resetURL).
		Msg("password reset email (log only; configure SMTP for real email)")
	return nil
}

func (m *LogMailer) DeliverPasswordChanged(ctx context.Context, name, email string) error {
	m.log.Info().
		Str("email", email).
		Str("name", name).
		Msg("password changed email (log only; configure SMTP for real email)")
	return nil
}
