package auth_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/amirhosseinghanipour/otpgate/internal/application/ports"
	"github.com/amirhosseinghanipour/otpgate/internal/domain"
	domerrors "github.com/amirhosseinghanipour/otpgate/internal/domain/errors"
)

type memUsers struct {
	mu      sync.Mutex
	byID    map[domain.UserID]*domain.User
	byEmail map[string]domain.UserID
	failGet error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[domain.UserID]*domain.User{}, byEmail: map[string]domain.UserID{}}
}

func (r *memUsers) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domerrors.ErrUserExists
	}
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *memUsers) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) SetActive(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domerrors.ErrUserNotFound
	}
	u := r.byID[id]
	u.IsActive = true
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *memUsers) UpdatePassword(_ context.Context, id domain.UserID, hash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domerrors.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (r *memUsers) delete(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, r.byEmail[email])
	delete(r.byEmail, email)
}

type sentMessage struct {
	kind  string
	email string
	name  string
	value string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *recordingNotifier) record(m sentMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
	return n.err
}

func (n *recordingNotifier) SendOTP(_ context.Context, email, code string) error {
	return n.record(sentMessage{kind: "otp", email: email, value: code})
}

func (n *recordingNotifier) SendPasswordResetLink(_ context.Context, email, token string) error {
	return n.record(sentMessage{kind: "password_reset", email: email, value: token})
}

func (n *recordingNotifier) SendPasswordChanged(_ context.Context, name, email string) error {
	return n.record(sentMessage{kind: "password_changed", email: email, name: name})
}

func (n *recordingNotifier) messages(kind string) []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMessage
	for _, m := range n.sent {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ttlCache records the ttl of every Set on top of a real cache.
type ttlCache struct {
	ports.Cache
	mu   sync.Mutex
	ttls map[string]time.Duration
}

func (c *ttlCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	c.ttls[key] = ttl
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, value, ttl)
}

func (c *ttlCache) ttl(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.ttls[key]
	return d, ok
}

var errCacheDown = errors.New("cache down")

type brokenCache struct{}

func (brokenCache) Set(context.Context, string, string, time.Duration) error { return errCacheDown }
func (brokenCache) Get(context.Context, string) (string, bool, error)        { return "", false, errCacheDown }
func (brokenCache) Delete(context.Context, string) (bool, error)             { return false, errCacheDown }
