package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
)

func TestHTTPEmitter_PostsSignedEvent(t *testing.T) {
	var got payload
	var sig, apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		sig = r.Header.Get(SignatureHeader)
		apiKey = r.Header.Get("X-API-Key")

		mac := hmac.New(sha256.New, []byte("s3cret"))
		mac.Write(body)
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), sig)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithSecret("s3cret"), WithHeader("X-API-Key", "k"))
	err := e.Emit(context.Background(), ports.AuditEvent{Event: "user.login", UserID: "u1", IP: "10.0.0.1", Success: true})
	require.NoError(t, err)
	assert.Equal(t, "user.login", got.Event)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.Success)
	assert.NotEmpty(t, sig)
	assert.Equal(t, "k", apiKey)
}

func TestHTTPEmitter_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithRetry(3, time.Millisecond))
	require.NoError(t, e.Emit(context.Background(), ports.AuditEvent{Event: "user.logout"}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPEmitter_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithRetry(3, time.Millisecond))
	err := e.Emit(context.Background(), ports.AuditEvent{Event: "user.login"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPEmitter_GivesUpAfterBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithRetry(2, time.Millisecond))
	require.Error(t, e.Emit(context.Background(), ports.AuditEvent{Event: "user.login"}))
	assert.Equal(t, int32(3), calls.Load())
}
