package queue

import (
	"context"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
)

// DirectNotifier delivers in-process when Redis/Asynq is not configured.
type DirectNotifier struct {
	mailer Mailer
	links  ResetLinks
}

func NewDirectNotifier(mailer Mailer, links ResetLinks) *DirectNotifier {
	return &DirectNotifier{mailer: mailer, links: links}
}

func (n *DirectNotifier) SendOTP(ctx context.Context, email, code string) error {
	return n.mailer.DeliverOTP(ctx, email, code)
}

func (n *DirectNotifier) SendPasswordResetLink(ctx context.Context, email, token string) error {
	return n.mailer.DeliverPasswordReset(ctx, email, n.links.URL(token))
}

func (n *DirectNotifier) SendPasswordChanged(ctx context.Context, name, email string) error {
	return n.mailer.DeliverPasswordChanged(ctx, name, email)
}

var _ ports.Notifier = (*DirectNotifier)(nil)
