// Package cache provides caching for compiled spec artifacts.
//
// Compilation is deterministic, so a spec can be cached under a hash of the
// analysis context bytes and the output options. The CLI uses [FileCache];
// [NullCache] disables caching entirely. The [Keyer] seam keeps key layout
// in one place so alternative backends can share it.
package cache

import (
	"context"
	"time"
)

// TTLSpec is the default lifetime for cached compiled specs. Compilation is
// deterministic, so the TTL only bounds disk growth.
const TTLSpec = 7 * 24 * time.Hour

// Cache stores compiled spec bytes keyed by compile inputs.
type Cache interface {
	// Get retrieves a value. The bool reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with a TTL; ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// SpecKeyOpts are the option fields that affect compiled output and must
// therefore participate in the cache key.
type SpecKeyOpts struct {
	Width       float64
	Height      float64
	Title       string
	XTitle      string
	YTitle      string
	Interactive bool
	Tooltip     bool
}

// Keyer generates cache keys for compiled specs.
type Keyer interface {
	// SpecKey keys one compile: contextHash is the hash of the raw
	// analysis-context bytes.
	SpecKey(contextHash string, opts SpecKeyOpts) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SpecKey generates a key for compiled spec caching.
func (k *DefaultKeyer) SpecKey(contextHash string, opts SpecKeyOpts) string {
	return hashKey("spec:"+contextHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so multiple tools or tenants can
// share one cache directory without collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer prepending prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SpecKey generates a prefixed spec key.
func (k *ScopedKeyer) SpecKey(contextHash string, opts SpecKeyOpts) string {
	return k.prefix + k.inner.SpecKey(contextHash, opts)
}
