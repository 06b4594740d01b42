package queue

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (c *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	c.opts = append(c.opts, opts)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (c *fakeClient) Close() error { return nil }

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) add(parts ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, parts[0]+"|"+parts[1]+"|"+parts[2])
	return nil
}

func (m *recordingMailer) DeliverOTP(_ context.Context, email, code string) error {
	return m.add("otp", email, code)
}

func (m *recordingMailer) DeliverPasswordReset(_ context.Context, email, resetURL string) error {
	return m.add("reset", email, resetURL)
}

func (m *recordingMailer) DeliverPasswordChanged(_ context.Context, name, email string) error {
	return m.add("changed", email, name)
}

func TestTaskEnqueuer_RoundTripThroughWorker(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	q := newTaskEnqueuer(client, ResetLinks{BaseURL: "https://app.test/reset/"}, time.Minute, zerolog.Nop())

	require.NoError(t, q.SendOTP(ctx, "a@x.com", "123456"))
	require.NoError(t, q.SendPasswordResetLink(ctx, "a@x.com", "tok.en"))
	require.NoError(t, q.SendPasswordChanged(ctx, "Ada", "a@x.com"))

	require.Len(t, client.tasks, 3)
	assert.Equal(t, TypeSendOTP, client.tasks[0].Type())
	assert.Equal(t, TypeSendPasswordReset, client.tasks[1].Type())
	assert.Equal(t, TypeSendPasswordChanged, client.tasks[2].Type())
	assert.NotEmpty(t, client.opts[0])

	mailer := &recordingMailer{}
	w := newWorker(nil, mailer, zerolog.Nop())
	for _, task := range client.tasks {
		require.NoError(t, w.ProcessTask(ctx, task))
	}
	assert.Equal(t, []string{
		"otp|a@x.com|123456",
		"reset|a@x.com|https://app.test/reset/tok.en",
		"changed|a@x.com|Ada",
	}, mailer.sent)
}

func TestTaskEnqueuer_EnqueueFailure(t *testing.T) {
	var buf bytes.Buffer
	client := &fakeClient{err: errors.New("redis down")}
	q := newTaskEnqueuer(client, ResetLinks{}, 0, zerolog.New(&buf))

	err := q.SendOTP(context.Background(), "a@x.com", "123456")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "enqueue email failed")
}

func TestWorker_InvalidPayloadSkipsRetry(t *testing.T) {
	w := newWorker(nil, &recordingMailer{}, zerolog.Nop())
	for _, typ := range []string{TypeSendOTP, TypeSendPasswordReset, TypeSendPasswordChanged} {
		err := w.ProcessTask(context.Background(), asynq.NewTask(typ, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry, typ)
	}
}

func TestDirectNotifier(t *testing.T) {
	ctx := context.Background()
	mailer := &recordingMailer{}
	n := NewDirectNotifier(mailer, ResetLinks{})

	require.NoError(t, n.SendOTP(ctx, "a@x.com", "111111"))
	require.NoError(t, n.SendPasswordResetLink(ctx, "a@x.com", "t"))
	require.NoError(t, n.SendPasswordChanged(ctx, "Ada", "a@x.com"))
	assert.Equal(t, []string{
		"otp|a@x.com|111111",
		"reset|a@x.com|" + DefaultResetBaseURL + "/t",
		"changed|a@x.com|Ada",
	}, mailer.sent)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf))
	require.NoError(t, m.DeliverOTP(context.Background(), "a@x.com", "123456"))
	require.NoError(t, m.DeliverPasswordReset(context.Background(), "a@x.com", "https://x/r/t"))
	out := buf.String()
	assert.Contains(t, out, `"otp":"123456"`)
	assert.Contains(t, out, `"reset_url":"https://x/r/t"`)
}
