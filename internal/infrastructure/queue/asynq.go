package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/samber/oops"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
)

const (
	TypeSendOTP             = "email:otp"
	TypeSendPasswordReset   = "email:password_reset"
	TypeSendPasswordChanged = "email:password_changed"
)

type otpPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type passwordResetPayload struct {
	Email    string `json:"email"`
	ResetURL string `json:"reset_url"`
}

type passwordChangedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// enqueuer is the subset of *asynq.Client used here.
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// TaskEnqueuer implements ports.Notifier by queueing email tasks for the Worker.
type TaskEnqueuer struct {
	client  enqueuer
	links   ResetLinks
	log     zerolog.Logger
	otpLife time.Duration
}

// NewAsynqEnqueuer returns a Notifier backed by Asynq. otpLife bounds how long an OTP
// task may wait in the queue; a code delivered after it expired is useless.
func NewAsynqEnqueuer(redisOpt asynq.RedisConnOpt, links ResetLinks, otpLife time.Duration, log zerolog.Logger) *TaskEnqueuer {
	return newTaskEnqueuer(asynq.NewClient(redisOpt), links, otpLife, log)
}

func newTaskEnqueuer(client enqueuer, links ResetLinks, otpLife time.Duration, log zerolog.Logger) *TaskEnqueuer {
	if otpLife <= 0 {
		otpLife = 5 * time.Minute
	}
	return &TaskEnqueuer{client: client, links: links, log: log, otpLife: otpLife}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) SendOTP(ctx context.Context, email, code string) error {
	return q.enqueue(ctx, TypeSendOTP, email, otpPayload{Email: email, Code: code},
		asynq.MaxRetry(3), asynq.Deadline(time.Now().Add(q.otpLife)))
}

func (q *TaskEnqueuer) SendPasswordResetLink(ctx context.Context, email, token string) error {
	return q.enqueue(ctx, TypeSendPasswordReset, email, passwordResetPayload{Email: email, ResetURL: q.links.URL(token)},
		asynq.MaxRetry(3), asynq.Deadline(time.Now().Add(resetLinkLife)))
}

func (q *TaskEnqueuer) SendPasswordChanged(ctx context.Context, name, email string) error {
	return q.enqueue(ctx, TypeSendPasswordChanged, email, passwordChangedPayload{Name: name, Email: email},
		asynq.MaxRetry(10))
}

func (q *TaskEnqueuer) enqueue(ctx context.Context, typ, email string, payload any, opts ...asynq.Option) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return oops.Code("TASK_ENCODE_FAILED").With("task", typ).Wrap(err)
	}
	if _, err := q.client.EnqueueContext(ctx, asynq.NewTask(typ, body), opts...); err != nil {
		q.log.Warn().Err(err).Str("task", typ).Str("email", email).Msg("enqueue email failed")
		return oops.Code("TASK_ENQUEUE_FAILED").With("task", typ).Wrap(err)
	}
	return nil
}

var _ ports.Notifier = (*TaskEnqueuer)(nil)
