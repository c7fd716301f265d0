// Package session owns the guided-learning state machine. The Manager
// mediates every component call against persisted session state:
// creation, advancement, chat, artifact repair, and completion.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/guidekit/internal/artifact"
	"github.com/abhisek/guidekit/internal/chat"
	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/planner"
	"github.com/abhisek/guidekit/internal/store"
	"github.com/abhisek/guidekit/internal/summary"
)

// historyWindow caps the scoped chat history passed to the responder.
const historyWindow = 10

// Manager orchestrates sessions. It assumes at most one concurrent
// operation per session identifier; operations on distinct sessions
// are independent.
type Manager struct {
	repo     store.SessionRepo
	planner  *planner.Planner
	artifact *artifact.Generator
	chat     *chat.Responder
	summary  *summary.Responder
}

// New creates a Manager.
func New(repo store.SessionRepo, p *planner.Planner, g *artifact.Generator, c *chat.Responder, s *summary.Responder) *Manager {
	return &Manager{repo: repo, planner: p, artifact: g, chat: c, summary: s}
}

// StepResult is returned by Start and Next. On completion Summary is
// set and HTML is empty; otherwise HTML carries the current artifact.
type StepResult struct {
	Session   *guide.Session
	HTML      string
	Summary   string
	Progress  int
	Completed bool
	Fallback  bool
}

// Create plans a curriculum from the records and persists a fresh
// initialized session.
func (m *Manager) Create(ctx context.Context, notebookID, notebookName string, records []guide.LearningRecord) (*guide.Session, error) {
	points, err := m.planner.Plan(ctx, notebookID, notebookName, records)
	if err != nil {
		return nil, fmt.Errorf("locate failed: %w", err)
	}

	now := time.Now().UTC()
	sess := &guide.Session{
		SessionID:       newSessionID(),
		NotebookID:      notebookID,
		NotebookName:    notebookName,
		CreatedAt:       now,
		Status:          guide.StatusInitialized,
		KnowledgePoints: points,
		CurrentIndex:    0,
	}
	if err := m.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Start generates the artifact for the first knowledge point and moves
// the session into the learning state.
func (m *Manager) Start(ctx context.Context, id string) (*StepResult, error) {
	sess, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status == guide.StatusCompleted {
		return nil, &guide.InvalidStatusError{Status: sess.Status}
	}
	// create guards against an empty plan, but a session written by an
	// older build could still carry one.
	if len(sess.KnowledgePoints) == 0 {
		return nil, guide.ErrNoKnowledgePoints
	}

	sess.CurrentIndex = 0
	res := m.generate(ctx, sess, sess.KnowledgePoints[0], "")
	sess.CurrentHTML = res.HTML
	sess.Status = guide.StatusLearning
	appendNote(sess, 0, pointNote(sess, 0))

	if err := m.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &StepResult{
		Session:  sess,
		HTML:     res.HTML,
		Progress: Progress(0, len(sess.KnowledgePoints)),
		Fallback: res.Fallback,
	}, nil
}

// Next advances to the following knowledge point, or completes the
// session and returns the final summary once the curriculum is done.
func (m *Manager) Next(ctx context.Context, id string) (*StepResult, error) {
	sess, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Completed is terminal: replay the stored summary without touching
	// the session.
	if sess.Status == guide.StatusCompleted {
		return &StepResult{
			Session:   sess,
			Summary:   sess.SummaryMarkdown,
			Progress:  100,
			Completed: true,
		}, nil
	}

	total := len(sess.KnowledgePoints)
	newIndex := sess.CurrentIndex + 1
	if newIndex >= total {
		text, _ := m.summary.Summarize(ctx, sess.NotebookName, sess.KnowledgePoints, sess.ChatHistory)
		sess.CurrentIndex = total
		sess.Status = guide.StatusCompleted
		sess.SummaryMarkdown = text
		// Session-level note: no knowledge index.
		sess.ChatHistory = append(sess.ChatHistory,
			guide.NewMessage(guide.RoleSystem, "All knowledge points completed. Summary generated.", nil))

		if err := m.repo.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		return &StepResult{
			Session:   sess,
			Summary:   text,
			Progress:  100,
			Completed: true,
		}, nil
	}

	res := m.generate(ctx, sess, sess.KnowledgePoints[newIndex], "")
	sess.CurrentIndex = newIndex
	sess.CurrentHTML = res.HTML
	appendNote(sess, newIndex, pointNote(sess, newIndex))

	if err := m.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &StepResult{
		Session:  sess,
		HTML:     res.HTML,
		Progress: Progress(newIndex, total),
		Fallback: res.Fallback,
	}, nil
}

// Chat answers a learner message in the scope of the current knowledge
// point. History is filtered to messages tagged with the current index
// and windowed to the most recent entries before it reaches the
// responder. The learner message and the reply are appended and
// persisted together.
func (m *Manager) Chat(ctx context.Context, id, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", guide.ErrEmptyMessage
	}
	sess, err := m.load(ctx, id)
	if err != nil {
		return "", err
	}
	if sess.Status != guide.StatusLearning {
		return "", &guide.InvalidStatusError{Status: sess.Status}
	}

	kp := sess.KnowledgePoints[sess.CurrentIndex]
	history := sess.MessagesForIndex(sess.CurrentIndex)
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	// The responder degrades to a canned answer on upstream failure,
	// so the exchange is recorded either way.
	answer, _ := m.chat.Reply(ctx, kp, history, message)

	idx := sess.CurrentIndex
	sess.ChatHistory = append(sess.ChatHistory,
		guide.NewMessage(guide.RoleUser, message, &idx),
		guide.NewMessage(guide.RoleAssistant, answer, &idx),
	)
	if err := m.repo.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return answer, nil
}

// FixArtifact regenerates the current artifact with the reported bug
// description. The stored artifact is replaced only when regeneration
// succeeded; the attempted result is returned either way.
func (m *Manager) FixArtifact(ctx context.Context, id, bugDescription string) (artifact.Result, error) {
	sess, err := m.load(ctx, id)
	if err != nil {
		return artifact.Result{}, err
	}
	if len(sess.KnowledgePoints) == 0 {
		return artifact.Result{}, guide.ErrNoKnowledgePoints
	}

	idx := sess.CurrentIndex
	if idx >= len(sess.KnowledgePoints) {
		idx = len(sess.KnowledgePoints) - 1
	}
	res := m.generate(ctx, sess, sess.KnowledgePoints[idx], bugDescription)
	if res.Err == nil {
		sess.CurrentHTML = res.HTML
		if err := m.repo.Save(ctx, sess); err != nil {
			return res, fmt.Errorf("save session: %w", err)
		}
	}
	return res, res.Err
}

// Get loads the full session snapshot.
func (m *Manager) Get(ctx context.Context, id string) (*guide.Session, error) {
	return m.load(ctx, id)
}

func (m *Manager) load(ctx context.Context, id string) (*guide.Session, error) {
	sess, err := m.repo.Load(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, guide.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (m *Manager) generate(ctx context.Context, sess *guide.Session, kp guide.KnowledgePoint, bug string) artifact.Result {
	res := m.artifact.Generate(ctx, kp, bug)
	res.HTML = artifact.BindSessionID(res.HTML, sess.SessionID)
	return res
}

func appendNote(sess *guide.Session, index int, text string) {
	idx := index
	sess.ChatHistory = append(sess.ChatHistory, guide.NewMessage(guide.RoleSystem, text, &idx))
}

func pointNote(sess *guide.Session, index int) string {
	kp := sess.KnowledgePoints[index]
	return fmt.Sprintf("Now learning knowledge point %d/%d: %s",
		index+1, len(sess.KnowledgePoints), kp.Title)
}

func newSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
