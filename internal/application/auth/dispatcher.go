package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
)

// DefaultNotifyTimeout bounds a single notification send.
const DefaultNotifyTimeout = 10 * time.Second

// Dispatcher sends notifications without blocking the caller. Failures are logged and dropped.
type Dispatcher struct {
	notifier ports.Notifier
	log      zerolog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(notifier ports.Notifier, log zerolog.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &Dispatcher{notifier: notifier, log: log, timeout: timeout}
}

func (d *Dispatcher) OTP(ctx context.Context, email, code string) {
	d.dispatch(ctx, "otp", email, func(ctx context.Context) error {
		return d.notifier.SendOTP(ctx, email, code)
	})
}

func (d *Dispatcher) PasswordResetLink(ctx context.Context, email, token string) {
	d.dispatch(ctx, "password_reset", email, func(ctx context.Context) error {
		return d.notifier.SendPasswordResetLink(ctx, email, token)
	})
}

func (d *Dispatcher) PasswordChanged(ctx context.Context, name, email string) {
	d.dispatch(ctx, "password_changed", email, func(ctx context.Context) error {
		return d.notifier.SendPasswordChanged(ctx, name, email)
	})
}

// Wait blocks until every dispatched send has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ctx context.Context, kind, email string, send func(context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Interface("panic", r).Str("notification", kind).Msg("notifier panicked")
			}
		}()
		// The request context is cancelled once the response is written.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		if err := send(sendCtx); err != nil {
			d.log.Warn().Err(err).Str("notification", kind).Str("email", email).Msg("notification failed")
		}
	}()
}
