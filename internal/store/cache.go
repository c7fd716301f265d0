package store

import (
	"context"
	"sync"

	"github.com/abhisek/guidekit/internal/guide"
)

// Cache is a read-through wrapper over a SessionRepo that avoids
// repeated snapshot deserialization within one process. Sessions are
// cached by identifier; Save writes through and refreshes the entry.
// Clones cross the cache boundary in both directions, so callers never
// share mutable state with the cache.
type Cache struct {
	inner SessionRepo

	mu       sync.RWMutex
	sessions map[string]*guide.Session
}

// NewCache wraps inner with an in-memory read-through cache.
func NewCache(inner SessionRepo) *Cache {
	return &Cache{
		inner:    inner,
		sessions: make(map[string]*guide.Session),
	}
}

// Save writes through to the underlying repo and refreshes the cache on
// success.
func (c *Cache) Save(ctx context.Context, session *guide.Session) error {
	if err := c.inner.Save(ctx, session); err != nil {
		return err
	}
	c.mu.Lock()
	c.sessions[session.SessionID] = session.Clone()
	c.mu.Unlock()
	return nil
}

// Load returns the cached session when present, otherwise falls through
// to the underlying repo and caches the result.
func (c *Cache) Load(ctx context.Context, sessionID string) (*guide.Session, error) {
	c.mu.RLock()
	cached, ok := c.sessions[sessionID]
	c.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	session, err := c.inner.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sessions[sessionID] = session.Clone()
	c.mu.Unlock()
	return session, nil
}
