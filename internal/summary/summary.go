// Package summary produces the markdown completion report for a
// finished session. Like the other learner-facing surfaces it never
// blocks completion: upstream failures degrade to a deterministic
// report assembled from the curriculum itself.
package summary

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/prompts"
)

// Responder generates completion summaries.
type Responder struct {
	provider llm.Provider
	loader   *prompts.Loader
	cfg      Config
}

// Config controls summary generation.
type Config struct {
	Language    string
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the summary defaults.
func DefaultConfig() Config {
	return Config{
		Language:    "en",
		MaxTokens:   8000,
		Temperature: 0.5,
	}
}

// New creates a Responder.
func New(provider llm.Provider, loader *prompts.Loader, cfg Config) *Responder {
	return &Responder{provider: provider, loader: loader, cfg: cfg}
}

// Summarize builds the final report over the whole curriculum and the
// full conversation log. On upstream failure it returns a deterministic
// fallback summary together with the error for observability.
func (r *Responder) Summarize(ctx context.Context, notebookName string, points []guide.KnowledgePoint, history []guide.Message) (string, error) {
	bundle, err := r.loader.Load("summary", r.cfg.Language)
	if err != nil {
		return fallbackSummary(notebookName, points), fmt.Errorf("load summary prompts: %w", err)
	}

	user := prompts.Render(bundle.UserTemplate, map[string]string{
		"notebook_name":        notebookName,
		"total_points":         strconv.Itoa(len(points)),
		"all_knowledge_points": formatPoints(points),
		"full_chat_history":    formatHistory(history),
	})

	ctx = llm.WithPurpose(ctx, "summary")
	resp, err := r.provider.Generate(ctx, llm.Request{
		System: bundle.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return fallbackSummary(notebookName, points), fmt.Errorf("summary completion: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return fallbackSummary(notebookName, points), nil
	}
	return text, nil
}

func formatPoints(points []guide.KnowledgePoint) string {
	var b strings.Builder
	for i, kp := range points {
		fmt.Fprintf(&b, "%d. %s\n", i+1, kp.Title)
		if kp.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", kp.Summary)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatHistory groups the conversation log by knowledge point so the
// model sees which exchanges belong to which part of the curriculum.
func formatHistory(history []guide.Message) string {
	if len(history) == 0 {
		return "(no conversation)"
	}
	var b strings.Builder
	lastIndex := -1
	for _, m := range history {
		idx := -1
		if m.KnowledgeIndex != nil {
			idx = *m.KnowledgeIndex
		}
		if idx != lastIndex && idx >= 0 {
			fmt.Fprintf(&b, "--- During knowledge point %d ---\n", idx+1)
			lastIndex = idx
		}
		fmt.Fprintf(&b, "%s: %s\n", roleLabel(m.Role), m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func roleLabel(role guide.Role) string {
	switch role {
	case guide.RoleUser:
		return "Learner"
	case guide.RoleAssistant:
		return "Assistant"
	default:
		return "Note"
	}
}

func fallbackSummary(notebookName string, points []guide.KnowledgePoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Learning summary: %s\n\n", notebookName)
	fmt.Fprintf(&b, "You worked through %d knowledge point(s):\n\n", len(points))
	for i, kp := range points {
		fmt.Fprintf(&b, "%d. **%s**", i+1, kp.Title)
		if kp.Summary != "" {
			fmt.Fprintf(&b, ": %s", kp.Summary)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nReview the points above and revisit any that still feel uncertain.\n")
	return b.String()
}
