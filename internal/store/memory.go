package store

import (
	"context"
	"sync"

	"github.com/abhisek/guidekit/internal/guide"
)

// MemoryRepo keeps sessions in a map. Used by the demo command and
// tests; snapshots are deep-copied across the boundary like the cache.
type MemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*guide.Session
}

// NewMemoryRepo creates an empty in-memory session store.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{sessions: make(map[string]*guide.Session)}
}

func (r *MemoryRepo) Save(_ context.Context, session *guide.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.SessionID] = session.Clone()
	return nil
}

func (r *MemoryRepo) Load(_ context.Context, sessionID string) (*guide.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}
