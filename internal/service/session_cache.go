package service

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"guardpost.app/registry/internal/model"
)

type cachedSession struct {
	user    *model.User
	session *model.Session
}

// SessionCache memoizes token validation keyed by token hash. A nil
// *SessionCache is a valid, always-missing cache.
//
// The cache is local to the process. Logout evicts only the local entry, so
// other replicas keep accepting a revoked token for at most their TTL.
type SessionCache struct {
	cache *ristretto.Cache[string, cachedSession]
	ttl   time.Duration
}

// NewSessionCache returns nil when ttl is not positive.
func NewSessionCache(ttl time.Duration) (*SessionCache, error) {
	if ttl <= 0 {
		return nil, nil
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, cachedSession]{
		NumCounters:        100_000,
		MaxCost:            10_000,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}

	return &SessionCache{cache: cache, ttl: ttl}, nil
}

func (c *SessionCache) Get(tokenHash string, now time.Time) (*model.User, *model.Session, bool) {
	if c == nil {
		return nil, nil, false
	}

	entry, ok := c.cache.Get(tokenHash)
	if !ok {
		return nil, nil, false
	}
	if entry.session.IsExpired(now) {
		c.cache.Del(tokenHash)
		return nil, nil, false
	}
	return entry.user, entry.session, true
}

// Set caches the pair for the configured TTL, clipped to the session expiry.
func (c *SessionCache) Set(tokenHash string, user *model.User, session *model.Session, now time.Time) {
	if c == nil {
		return
	}

	ttl := min(c.ttl, session.ExpiresAt.Sub(now))
	if ttl <= 0 {
		return
	}
	c.cache.SetWithTTL(tokenHash, cachedSession{user: user, session: session}, 1, ttl)
	c.cache.Wait()
}

func (c *SessionCache) Delete(tokenHash string) {
	if c == nil {
		return
	}
	c.cache.Del(tokenHash)
}

func (c *SessionCache) Close() {
	if c == nil {
		return
	}
	c.cache.Close()
}
