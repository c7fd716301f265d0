// Package planner derives an ordered curriculum of knowledge points
// from a learner's raw records.
package planner

import (
	"context"
	"fmt"

	"github.com/abhisek/guidekit/internal/extract"
	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/prompts"
)

// Planner turns learning records into knowledge points via one
// completion call.
type Planner struct {
	provider llm.Provider
	loader   *prompts.Loader
	cfg      Config
}

// New creates a Planner.
func New(provider llm.Provider, loader *prompts.Loader, cfg Config) *Planner {
	return &Planner{provider: provider, loader: loader, cfg: cfg}
}

// ParseError reports model output that failed every parsing strategy.
// Raw carries the full response text for diagnosis.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "curriculum response is not valid JSON"
}

// Plan formats the records into one prompt, requests a structured
// completion, and shapes the response into an ordered curriculum.
// The ordering is exactly the model's; no reordering or deduplication.
//
// A structured-mode request that fails for any reason is retried once
// in free-form mode, because some providers reject structured output
// without a distinguishable error signal. This is the only semantic
// retry in guidekit.
func (p *Planner) Plan(ctx context.Context, notebookID, notebookName string, records []guide.LearningRecord) ([]guide.KnowledgePoint, error) {
	if len(records) == 0 {
		return nil, guide.ErrNoRecords
	}

	bundle, err := p.loader.Load("plan", p.cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("load plan prompts: %w", err)
	}

	userPrompt := prompts.Render(bundle.UserTemplate, map[string]string{
		"notebook_id":     notebookID,
		"notebook_name":   notebookName,
		"record_count":    fmt.Sprintf("%d", len(records)),
		"records_content": formatRecords(records, p.cfg.MaxRecordOutputChars),
	})

	ctx = llm.WithPurpose(ctx, "plan")

	req := llm.Request{
		System: bundle.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userPrompt},
		},
		Schema:      PlanSchema,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	}

	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		req.Schema = nil
		resp, err = p.provider.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("curriculum generation: %w", err)
		}
	}

	text := resp.Text()
	raw, ok := extract.Parse(text)
	if !ok {
		return nil, &ParseError{Raw: text}
	}

	points := extract.KnowledgePoints(raw)
	if len(points) == 0 {
		return nil, guide.ErrNoKnowledgePoints
	}
	return points, nil
}
