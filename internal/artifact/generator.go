// Package artifact generates the interactive HTML unit for one
// knowledge point. Generation never fails from the caller's point of
// view: unusable model output degrades to a deterministic payload and
// the result carries a fidelity flag instead of an error path.
package artifact

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/guidekit/internal/extract"
	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/prompts"
)

// SessionIDPlaceholder is embedded in rendered artifacts and bound to
// the real session identifier by the session manager.
const SessionIDPlaceholder = "__SESSION_ID__"

// Generator produces rendered artifacts from knowledge points.
type Generator struct {
	provider llm.Provider
	loader   *prompts.Loader
	cfg      Config
}

// New creates a Generator.
func New(provider llm.Provider, loader *prompts.Loader, cfg Config) *Generator {
	return &Generator{provider: provider, loader: loader, cfg: cfg}
}

// Result is the outcome of one generation attempt. HTML is always a
// complete, well-formed artifact. Fallback reports whether any of the
// content was produced or repaired by fallback logic rather than taken
// verbatim from the model; Err carries the upstream failure, if any,
// for observability.
type Result struct {
	HTML     string
	Fallback bool
	Err      error
}

// Generate builds the artifact for a knowledge point. A non-empty
// bugDescription switches to the repair prompt, asking the model to
// regenerate the full payload with the reported issues fixed.
func (g *Generator) Generate(ctx context.Context, kp guide.KnowledgePoint, bugDescription string) Result {
	ctx = llm.WithPurpose(ctx, "artifact")

	userPrompt, system, err := g.buildPrompt(kp, bugDescription)
	if err != nil {
		return Result{
			HTML:     Render(extract.FallbackPayload(kp)),
			Fallback: true,
			Err:      err,
		}
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userPrompt},
		},
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return Result{
			HTML:     Render(extract.FallbackPayload(kp)),
			Fallback: true,
			Err:      err,
		}
	}

	payload, repaired := extract.ArtifactPayload(resp.Text(), kp)
	return Result{
		HTML:     Render(payload),
		Fallback: repaired,
	}
}

func (g *Generator) buildPrompt(kp guide.KnowledgePoint, bugDescription string) (user, system string, err error) {
	bundle, err := g.loader.Load("artifact", g.cfg.Language)
	if err != nil {
		return "", "", fmt.Errorf("load artifact prompts: %w", err)
	}

	if bugDescription != "" {
		var b strings.Builder
		b.WriteString("The previously generated JSON has the following issues:\n")
		b.WriteString(bugDescription)
		b.WriteString("\n\nFix the issues and regenerate the full JSON using the same schema.\n\n")
		b.WriteString("Knowledge point:\n")
		fmt.Fprintf(&b, "- Title: %s\n", kp.Title)
		fmt.Fprintf(&b, "- Summary: %s\n", kp.Summary)
		fmt.Fprintf(&b, "- Anticipated difficulty: %s\n", kp.Difficulty)
		return b.String(), bundle.System, nil
	}

	user = prompts.Render(bundle.UserTemplate, map[string]string{
		"knowledge_title":   kp.Title,
		"knowledge_summary": kp.Summary,
		"user_difficulty":   kp.Difficulty,
	})
	return user, bundle.System, nil
}
