// Package guide defines the guided-learning domain model: the input
// records, the derived curriculum, the conversation log, and the session
// aggregate that ties them together.
package guide

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is the session lifecycle state. Transitions are monotonic:
// initialized → learning → completed, never backwards.
type Status string

const (
	StatusInitialized Status = "initialized"
	StatusLearning    Status = "learning"
	StatusCompleted   Status = "completed"
)

// LearningRecord is one raw input unit for curriculum planning: a prior
// interaction consisting of the learner's query and the system's output.
// Records are supplied externally and never mutated.
type LearningRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	UserQuery string `json:"user_query"`
	Output    string `json:"output"`
}

// KnowledgePoint is one atomic concept in a session's curriculum.
// Points are created once by the planner; their order is fixed for the
// lifetime of the session.
type KnowledgePoint struct {
	Title      string `json:"knowledge_title"`
	Summary    string `json:"knowledge_summary"`
	Difficulty string `json:"user_difficulty"`
}

// Message is one append-only conversation log entry. KnowledgeIndex ties
// the message to the knowledge point that was active when it was
// recorded; it is nil for session-level notes.
type Message struct {
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	KnowledgeIndex *int      `json:"knowledge_index,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string, knowledgeIndex *int) Message {
	return Message{
		Role:           role,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		KnowledgeIndex: knowledgeIndex,
	}
}

// Session is the aggregate root for one learner's run through a
// curriculum. The session Manager is its sole mutator; everything else
// reads snapshots.
//
// Invariants:
//   - CurrentIndex is monotonically non-decreasing within [0, len(KnowledgePoints)].
//   - CurrentIndex == len(KnowledgePoints) exactly when Status is completed.
//   - KnowledgePoints never changes after creation; ChatHistory is append-only.
type Session struct {
	SessionID       string           `json:"session_id"`
	NotebookID      string           `json:"notebook_id"`
	NotebookName    string           `json:"notebook_name"`
	CreatedAt       time.Time        `json:"created_at"`
	Status          Status           `json:"status"`
	KnowledgePoints []KnowledgePoint `json:"knowledge_points"`
	CurrentIndex    int              `json:"current_index"`
	ChatHistory     []Message        `json:"chat_history"`
	CurrentHTML     string           `json:"current_html"`
	SummaryMarkdown string           `json:"summary_markdown"`
}

// sessionAlias avoids UnmarshalJSON recursion.
type sessionAlias Session

type sessionJSON struct {
	sessionAlias
	// Older snapshots stored the summary under "summary".
	LegacySummary string `json:"summary,omitempty"`
}

// UnmarshalJSON accepts both the canonical "summary_markdown" field and
// the historical "summary" alias, preferring the canonical one. Writes
// always use the canonical name.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Session(raw.sessionAlias)
	if s.SummaryMarkdown == "" && raw.LegacySummary != "" {
		s.SummaryMarkdown = raw.LegacySummary
	}
	if s.Status == "" {
		s.Status = StatusInitialized
	}
	return nil
}

// Clone returns a deep copy of the session, so cached snapshots cannot
// be mutated by callers.
func (s *Session) Clone() *Session {
	cp := *s
	cp.KnowledgePoints = append([]KnowledgePoint(nil), s.KnowledgePoints...)
	cp.ChatHistory = make([]Message, len(s.ChatHistory))
	for i, m := range s.ChatHistory {
		cp.ChatHistory[i] = m
		if m.KnowledgeIndex != nil {
			idx := *m.KnowledgeIndex
			cp.ChatHistory[i].KnowledgeIndex = &idx
		}
	}
	return &cp
}

// MessagesForIndex returns the log entries tagged with the given
// knowledge index, in append order.
func (s *Session) MessagesForIndex(idx int) []Message {
	var out []Message
	for _, m := range s.ChatHistory {
		if m.KnowledgeIndex != nil && *m.KnowledgeIndex == idx {
			out = append(out, m)
		}
	}
	return out
}
