package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, body)) when a secret is configured.
const SignatureHeader = "X-Otpgate-Signature"

// HTTPEmitter sends audit events to an HTTP endpoint via POST JSON.
// Network errors and 5xx responses are retried with exponential backoff.
type HTTPEmitter struct {
	client     *http.Client
	url        string
	secret     []byte
	headers    map[string]string
	maxRetries uint64
	baseDelay  time.Duration
}

// HTTPEmitterOption configures HTTPEmitter.
type HTTPEmitterOption func(*HTTPEmitter)

// WithClient sets the HTTP client (default: 10s timeout).
func WithClient(c *http.Client) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		e.client = c
	}
}

// WithHeader sets a header sent on every request (e.g. Authorization, X-API-Key).
func WithHeader(key, value string) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		if e.headers == nil {
			e.headers = make(map[string]string)
		}
		e.headers[key] = value
	}
}

// WithSecret signs every body with HMAC-SHA256.
func WithSecret(secret string) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		if secret != "" {
			e.secret = []byte(secret)
		}
	}
}

// WithRetry sets the retry budget (default: 3 retries from 200ms).
func WithRetry(maxRetries uint64, base time.Duration) HTTPEmitterOption {
	return func(e *HTTPEmitter) {
		e.maxRetries = maxRetries
		if base > 0 {
			e.baseDelay = base
		}
	}
}

// NewHTTPEmitter returns a WebhookEmitter that POSTs AuditEvent as JSON to url.
func NewHTTPEmitter(url string, opts ...HTTPEmitterOption) *HTTPEmitter {
	e := &HTTPEmitter{
		client:     &http.Client{Timeout: 10 * time.Second},
		url:        url,
		maxRetries: 3,
		baseDelay:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type payload struct {
	Event     string    `json:"event"`
	UserID    string    `json:"user_id,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Emit implements ports.WebhookEmitter.
func (e *HTTPEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	body, err := json.Marshal(payload{
		Event:     event.Event,
		UserID:    event.UserID,
		IP:        event.IP,
		Success:   event.Success,
		Error:     event.Err,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return oops.Code("WEBHOOK_ENCODE_FAILED").With("event", event.Event).Wrap(err)
	}
	backoff := retry.WithMaxRetries(e.maxRetries, retry.NewExponential(e.baseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return e.post(ctx, body)
	})
	if err != nil {
		return oops.Code("WEBHOOK_EMIT_FAILED").With("event", event.Event).Wrap(err)
	}
	return nil
}

func (e *HTTPEmitter) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}
	if e.secret != nil {
		mac := hmac.New(sha256.New, e.secret)
		mac.Write(body)
		req.Header.Set(SignatureHeader, hex.EncodeToString(mac.Sum(nil)))
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	switch {
	case resp.StatusCode >= 500:
		return retry.RetryableError(&emitError{status: resp.StatusCode})
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &emitError{status: resp.StatusCode}
	}
	return nil
}

type emitError struct {
	status int
}

func (e *emitError) Error() string {
	return fmt.Sprintf("webhook endpoint returned status %d", e.status)
}

var _ ports.WebhookEmitter = (*HTTPEmitter)(nil)
