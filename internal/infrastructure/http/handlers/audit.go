package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	mw "github.com/amirhosseinghanipour/otpgate/internal/infrastructure/http/middleware"
)

// Auditor writes one auth_audit line per auth event and forwards it to the webhook.
type Auditor struct {
	log     zerolog.Logger
	emitter ports.WebhookEmitter
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAuditor returns an Auditor; emitter may be nil.
func NewAuditor(log zerolog.Logger, emitter ports.WebhookEmitter) *Auditor {
	return &Auditor{log: log, emitter: emitter, timeout: 30 * time.Second}
}

// Record logs the event, counts it, and emits it to the webhook in the background.
func (a *Auditor) Record(r *http.Request, event, userID string, success bool, errMsg string) {
	ip := getClientIP(r)
	ev := a.log.Info()
	if !success {
		ev = a.log.Warn()
	}
	ev.
		Str("event", event).
		Str("user_id", userID).
		Str("ip", ip).
		Str("request_id", middleware.GetReqID(r.Context())).
		Bool("success", success)
	if errMsg != "" {
		ev.Str("error", errMsg)
	}
	ev.Msg("auth_audit")
	mw.RecordAuthAttempt(event, success)

	if a.emitter == nil {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), a.timeout)
		defer cancel()
		if err := a.emitter.Emit(ctx, ports.AuditEvent{
			Event:   event,
			UserID:  userID,
			IP:      ip,
			Success: success,
			Err:     errMsg,
		}); err != nil {
			a.log.Warn().Err(err).Str("event", event).Msg("audit webhook failed")
		}
	}()
}

// Wait blocks until in-flight webhook deliveries finish.
func (a *Auditor) Wait() {
	a.wg.Wait()
}

// getClientIP relies on chi's RealIP having rewritten RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return r.RemoteAddr
}
