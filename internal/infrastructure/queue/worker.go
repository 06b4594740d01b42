package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Mailer performs the actual delivery for queued email tasks.
type Mailer interface {
	DeliverOTP(ctx context.Context, email, code string) error
	DeliverPasswordReset(ctx context.Context, email, resetURL string) error
	DeliverPasswordChanged(ctx context.Context, name, email string) error
}

// Worker runs Asynq task handlers for queued email.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	mailer Mailer
	log    zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisConnOpt, mailer Mailer, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	return newWorker(srv, mailer, log)
}

func newWorker(srv *asynq.Server, mailer Mailer, log zerolog.Logger) *Worker {
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, mailer: mailer, log: log}
	mux.HandleFunc(TypeSendOTP, w.handleSendOTP)
	mux.HandleFunc(TypeSendPasswordReset, w.handleSendPasswordReset)
	mux.HandleFunc(TypeSendPasswordChanged, w.handleSendPasswordChanged)
	return w
}

// ProcessTask dispatches t to its handler.
func (w *Worker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	return w.mux.ProcessTask(ctx, t)
}

func (w *Worker) handleSendOTP(ctx context.Context, t *asynq.Task) error {
	var p otpPayload
	if err := w.decode(t, &p); err != nil {
		return err
	}
	return w.mailer.DeliverOTP(ctx, p.Email, p.Code)
}

func (w *Worker) handleSendPasswordReset(ctx context.Context, t *asynq.Task) error {
	var p passwordResetPayload
	if err := w.decode(t, &p); err != nil {
		return err
	}
	return w.mailer.DeliverPasswordReset(ctx, p.Email, p.ResetURL)
}

func (w *Worker) handleSendPasswordChanged(ctx context.Context, t *asynq.Task) error {
	var p passwordChangedPayload
	if err := w.decode(t, &p); err != nil {
		return err
	}
	return w.mailer.DeliverPasswordChanged(ctx, p.Name, p.Email)
}

// decode rejects malformed payloads without retry.
func (w *Worker) decode(t *asynq.Task, v any) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		w.log.Error().Err(err).Str("task", t.Type()).Msg("task payload invalid")
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
