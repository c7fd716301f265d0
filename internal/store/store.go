// Package store provides session persistence and the LLM request event
// log. Two SessionRepo implementations exist: a JSON-file-per-session
// store and a SQLite store; both write full snapshots atomically.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/guidekit/internal/guide"
)

// ErrNotFound is returned by Load for unknown session identifiers.
var ErrNotFound = errors.New("session not found")

// SessionRepo persists session snapshots keyed by session identifier.
// Save must be atomic: a crash mid-write never leaves a torn snapshot
// observable by Load.
type SessionRepo interface {
	Save(ctx context.Context, session *guide.Session) error
	Load(ctx context.Context, sessionID string) (*guide.Session, error)
}

// LLMEvent records one completion request for observability.
type LLMEvent struct {
	ID           int64
	Timestamp    time.Time
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo appends and queries LLM request events.
type EventRepo interface {
	AppendLLMEvent(ctx context.Context, ev LLMEvent) error
	RecentLLMEvents(ctx context.Context, limit int) ([]LLMEvent, error)
}
