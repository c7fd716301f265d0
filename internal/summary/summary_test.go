package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/prompts"
)

var testPoints = []guide.KnowledgePoint{
	{Title: "Goroutines", Summary: "Lightweight concurrent functions."},
	{Title: "Channels", Summary: "Typed conduits between goroutines."},
}

func newResponder(provider llm.Provider) *Responder {
	return New(provider, prompts.NewLoader(""), DefaultConfig())
}

func TestSummarize_Success(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte("# Summary\n\nYou covered concurrency basics.")},
	)

	text, err := newResponder(mock).Summarize(context.Background(), "Go Concurrency", testPoints, nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(text, "concurrency basics") {
		t.Errorf("text = %q", text)
	}
}

func TestSummarize_ProviderFailureFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)

	text, err := newResponder(mock).Summarize(context.Background(), "Go Concurrency", testPoints, nil)
	if err == nil {
		t.Fatal("expected error for observability")
	}
	if text == "" {
		t.Fatal("fallback summary must not be empty")
	}
	for _, want := range []string{"Go Concurrency", "Goroutines", "Channels"} {
		if !strings.Contains(text, want) {
			t.Errorf("fallback summary missing %q", want)
		}
	}
}

func TestSummarize_PromptGroupsHistoryByPoint(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("done")})

	idx0, idx1 := 0, 1
	history := []guide.Message{
		guide.NewMessage(guide.RoleUser, "how do goroutines start?", &idx0),
		guide.NewMessage(guide.RoleAssistant, "With the go keyword.", &idx0),
		guide.NewMessage(guide.RoleUser, "are channels typed?", &idx1),
	}

	_, err := newResponder(mock).Summarize(context.Background(), "Go Concurrency", testPoints, history)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	for _, want := range []string{
		"--- During knowledge point 1 ---",
		"--- During knowledge point 2 ---",
		"Learner: how do goroutines start?",
		"Assistant: With the go keyword.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "2") {
		t.Error("prompt missing total point count")
	}
}

func TestSummarize_EmptyHistory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte("done")})

	_, err := newResponder(mock).Summarize(context.Background(), "Go Concurrency", testPoints, nil)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "(no conversation)") {
		t.Error("expected empty-history marker in prompt")
	}
}
