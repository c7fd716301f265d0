// Package chat answers learner questions scoped to one knowledge
// point. Failures degrade to a canned apology so the learner-facing
// surface always has something to show.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/prompts"
)

// FallbackAnswer is returned when the upstream completion fails.
const FallbackAnswer = "Sorry, I couldn't answer that right now. Please try again in a moment."

// Responder turns a learner message plus scoped history into a reply.
type Responder struct {
	provider llm.Provider
	loader   *prompts.Loader
	cfg      Config
}

// Config controls reply generation.
type Config struct {
	Language    string
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the reply defaults.
func DefaultConfig() Config {
	return Config{
		Language:    "en",
		MaxTokens:   4000,
		Temperature: 0.6,
	}
}

// New creates a Responder.
func New(provider llm.Provider, loader *prompts.Loader, cfg Config) *Responder {
	return &Responder{provider: provider, loader: loader, cfg: cfg}
}

// Reply answers message in the context of kp and history. History must
// already be scoped and windowed by the caller; it is rendered oldest
// first. On upstream failure the canned answer is returned together
// with the error so callers can both show something and log the cause.
func (r *Responder) Reply(ctx context.Context, kp guide.KnowledgePoint, history []guide.Message, message string) (string, error) {
	bundle, err := r.loader.Load("chat", r.cfg.Language)
	if err != nil {
		return FallbackAnswer, fmt.Errorf("load chat prompts: %w", err)
	}

	user := prompts.Render(bundle.UserTemplate, map[string]string{
		"knowledge_title":   kp.Title,
		"knowledge_summary": kp.Summary,
		"user_difficulty":   kp.Difficulty,
		"chat_history":      formatHistory(history),
		"user_question":     message,
	})

	ctx = llm.WithPurpose(ctx, "chat")
	resp, err := r.provider.Generate(ctx, llm.Request{
		System: bundle.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return FallbackAnswer, fmt.Errorf("chat completion: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return FallbackAnswer, nil
	}
	return answer, nil
}

func formatHistory(history []guide.Message) string {
	if len(history) == 0 {
		return "(no previous messages)"
	}
	var b strings.Builder
	for _, m := range history {
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
