package ports

import (
	"context"
	"time"
)

// Cache is an ephemeral key-value store with per-key expiry (OTPs, blacklist, reset guards).
type Cache interface {
	// Set stores value under key. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Delete removes key and reports whether it existed. Exactly one of several
	// concurrent deletes of the same key observes true.
	Delete(ctx context.Context, key string) (bool, error)
}
