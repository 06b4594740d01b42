package auth_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/otpgate/internal/application/auth"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type blockingNotifier struct {
	recordingNotifier
	release chan struct{}
	ctxErr  chan error
}

func (n *blockingNotifier) SendOTP(ctx context.Context, email, code string) error {
	<-n.release
	n.ctxErr <- ctx.Err()
	return nil
}

func TestDispatcher_DoesNotBlockAndIgnoresRequestCancel(t *testing.T) {
	n := &blockingNotifier{release: make(chan struct{}), ctxErr: make(chan error, 1)}
	d := auth.NewDispatcher(n, zerolog.Nop(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.OTP(ctx, "a@x.com", "123456")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on the notifier")
	}

	cancel()
	close(n.release)
	d.Wait()
	assert.NoError(t, <-n.ctxErr)
}

func TestDispatcher_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	n := &recordingNotifier{err: assert.AnError}
	d := auth.NewDispatcher(n, zerolog.New(&buf), time.Second)

	d.PasswordResetLink(context.Background(), "a@x.com", "tok")
	d.PasswordChanged(context.Background(), "Ada", "a@x.com")
	d.Wait()

	out := buf.String()
	assert.Contains(t, out, `"notification":"password_reset"`)
	assert.Contains(t, out, `"notification":"password_changed"`)
	assert.Contains(t, out, assert.AnError.Error())
}

type panickingNotifier struct{ recordingNotifier }

func (*panickingNotifier) SendOTP(context.Context, string, string) error { panic("boom") }

func TestDispatcher_RecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	d := auth.NewDispatcher(&panickingNotifier{}, zerolog.New(&buf), time.Second)
	d.OTP(context.Background(), "a@x.com", "123456")
	d.Wait()
	assert.Contains(t, buf.String(), "notifier panicked")
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"Bearer abc":      "abc",
		"bearer abc":      "abc",
		"BEARER  abc  ":   "abc",
		"  Bearer x.y.z ": "x.y.z",
	} {
		got, err := auth.BearerToken(header)
		require.NoError(t, err, header)
		assert.Equal(t, want, got)
	}
	for _, header := range []string{"", "Bearer", "Bearer ", "Token abc", "Bearerabc"} {
		_, err := auth.BearerToken(header)
		assert.ErrorIs(t, err, domerrors.ErrMissingToken, header)
	}
}
