package artifact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/guidekit/internal/extract"
	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/prompts"
)

var testKP = guide.KnowledgePoint{
	Title:      "Recursion",
	Summary:    "A function defined in terms of itself.",
	Difficulty: "Trusting the recursive leap",
}

const artifactJSON = `{
	"title": "Recursion",
	"concept": "A recursive function solves a problem by solving smaller instances of it.",
	"key_points": ["Base case stops the recursion", "Each call shrinks the problem"],
	"example_problem": "Compute factorial(3) by hand.",
	"example_answer": "3 * 2 * 1 = 6, bottoming out at factorial(0) = 1.",
	"check_question": "What happens without a base case?",
	"next_hint": "Move on once the call stack picture is clear."
}`

func newGenerator(provider llm.Provider) *Generator {
	return New(provider, prompts.NewLoader(""), DefaultConfig())
}

func TestGenerate_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(artifactJSON)})

	res := newGenerator(mock).Generate(context.Background(), testKP, "")
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if res.Fallback {
		t.Error("complete payload flagged as fallback")
	}
	for _, want := range []string{"Recursion", "Base case stops the recursion", "factorial(3)", SessionIDPlaceholder} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerate_ProviderFailureDegrades(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)

	res := newGenerator(mock).Generate(context.Background(), testKP, "")
	if res.Err == nil {
		t.Fatal("expected Err to carry the upstream failure")
	}
	if !res.Fallback {
		t.Error("expected fallback flag")
	}
	if res.HTML == "" {
		t.Fatal("HTML must never be empty")
	}
	if !strings.Contains(res.HTML, "Recursion") {
		t.Error("fallback artifact should still carry the knowledge point")
	}
}

func TestGenerate_ProseDegrades(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte("Recursion is when a function calls itself!")},
	)

	res := newGenerator(mock).Generate(context.Background(), testKP, "")
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if !res.Fallback {
		t.Error("expected fallback flag for prose output")
	}
	if !strings.Contains(res.HTML, "In one paragraph, explain Recursion.") {
		t.Error("expected synthesized check question in HTML")
	}
}

func TestGenerate_RepairPromptCarriesBugDescription(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: []byte(artifactJSON)})

	res := newGenerator(mock).Generate(context.Background(), testKP, "the example answer contradicts the problem")
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "the example answer contradicts the problem") {
		t.Error("repair prompt missing bug description")
	}
	if !strings.Contains(prompt, testKP.Title) {
		t.Error("repair prompt missing knowledge point")
	}
}

func TestRender_EscapesContent(t *testing.T) {
	p := extract.Payload{
		Title:          `<script>alert("x")</script>`,
		Concept:        "a < b && b > c",
		KeyPoints:      []string{"<b>bold</b>"},
		ExampleProblem: "line one\nline two",
		ExampleAnswer:  "ok",
		CheckQuestion:  `quote " and <tag>`,
		NextHint:       "done",
	}
	doc := Render(p)

	if strings.Contains(doc, `<script>alert`) {
		t.Error("title script injected unescaped")
	}
	if !strings.Contains(doc, "&lt;script&gt;") {
		t.Error("expected escaped title")
	}
	if !strings.Contains(doc, "a &lt; b &amp;&amp; b &gt; c") {
		t.Error("expected escaped concept")
	}
	if !strings.Contains(doc, "line one<br>line two") {
		t.Error("expected newline converted to <br>")
	}
	// The check question reaches the script block as a JSON literal.
	if !strings.Contains(doc, `var checkQuestion = "quote \" and <tag>";`) {
		t.Error("expected JSON-encoded check question in script")
	}
}

func TestBindSessionID(t *testing.T) {
	doc := Render(extract.FallbackPayload(testKP))
	bound := BindSessionID(doc, "abc12345")
	if strings.Contains(bound, SessionIDPlaceholder) {
		t.Error("placeholder still present after binding")
	}
	if !strings.Contains(bound, `var sessionID = "abc12345";`) {
		t.Error("session id not bound into script")
	}
}
