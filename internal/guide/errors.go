package guide

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned by session-scoped operations for
	// unknown identifiers.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoRecords is returned when curriculum planning receives an
	// empty record set.
	ErrNoRecords = errors.New("no records provided")

	// ErrNoKnowledgePoints is returned when planning succeeds but
	// yields an empty curriculum.
	ErrNoKnowledgePoints = errors.New("no knowledge points found")

	// ErrEmptyMessage is returned when chat receives a blank message.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// InvalidStatusError reports an operation attempted in the wrong
// lifecycle state, e.g. chatting before start or after completion.
type InvalidStatusError struct {
	Status Status
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid session status: %s", e.Status)
}
