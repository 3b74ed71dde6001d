package auth

import (
	"sync"
	"time"
)

// DefaultExpiryMargin is how long before their real expiration cached
// credentials stop being treated as valid, so that requests signed just
// before the cutoff don't expire in flight.
const DefaultExpiryMargin = 60 * time.Second

type cacheState int

const (
	cacheEmpty cacheState = iota
	cacheSet
	cacheCleared
)

// CredentialCache holds the active temporary credential set. It
// distinguishes never having held credentials from having been
// explicitly cleared by a sign-out.
type CredentialCache struct {
	mu     sync.Mutex
	state  cacheState
	creds  Credentials
	margin time.Duration
	now    func() time.Time
}

// CacheOption configures a CredentialCache.
type CacheOption func(*CredentialCache)

// WithExpiryMargin overrides the safety margin applied before the real
// credential expiration.
func WithExpiryMargin(margin time.Duration) CacheOption {
	return func(c *CredentialCache) {
		c.margin = margin
	}
}

func withClock(now func() time.Time) CacheOption {
	return func(c *CredentialCache) {
		c.now = now
	}
}

// NewCredentialCache creates an empty cache with the default expiry
// margin.
func NewCredentialCache(opts ...CacheOption) *CredentialCache {
	c := &CredentialCache{
		margin: DefaultExpiryMargin,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Valid reports whether a credential set is stored and the current time
// is strictly before its expiration minus the margin. Exactly at the
// boundary the credentials are already stale.
func (c *CredentialCache) Valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validLocked()
}

func (c *CredentialCache) validLocked() bool {
	if c.state != cacheSet {
		return false
	}
	return c.now().Before(c.creds.Expiration.Add(-c.margin))
}

// Store replaces any cached credential set.
func (c *CredentialCache) Store(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = cacheSet
	c.creds = creds
}

// Clear removes the cached set, leaving the cache in the explicitly
// cleared state.
func (c *CredentialCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = cacheCleared
	c.creds = Credentials{}
}

// Credentials returns the cached set if it is currently valid.
func (c *CredentialCache) Credentials() (Credentials, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.validLocked() {
		return Credentials{}, false
	}
	return c.creds, true
}

// Cleared reports whether the cache was explicitly emptied by a
// sign-out, as opposed to never having held credentials.
func (c *CredentialCache) Cleared() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == cacheCleared
}
