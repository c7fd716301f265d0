package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abhisek/guidekit/internal/artifact"
	"github.com/abhisek/guidekit/internal/chat"
	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/planner"
	"github.com/abhisek/guidekit/internal/prompts"
	"github.com/abhisek/guidekit/internal/session"
	"github.com/abhisek/guidekit/internal/store"
	"github.com/abhisek/guidekit/internal/summary"
)

func newTestServer(provider llm.Provider) (*Server, *store.MemoryRepo) {
	repo := store.NewMemoryRepo()
	loader := prompts.NewLoader("")
	manager := session.New(
		store.NewCache(repo),
		planner.New(provider, loader, planner.DefaultConfig()),
		artifact.New(provider, loader, artifact.DefaultConfig()),
		chat.New(provider, loader, chat.DefaultConfig()),
		summary.New(provider, loader, summary.DefaultConfig()),
	)
	return New(manager), repo
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

const planJSON = `{"knowledge_points": [{"knowledge_title": "Attention", "knowledge_summary": "s", "user_difficulty": "d"}]}`

func createBody() map[string]any {
	return map[string]any{
		"notebook_id":   "nb-1",
		"notebook_name": "Transformers",
		"records": []map[string]string{
			{"id": "r1", "type": "qa", "title": "T", "user_query": "q", "output": "o"},
		},
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(llm.NewMockProvider())

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateSession(t *testing.T) {
	srv, _ := newTestServer(llm.NewMockProvider(
		llm.MockResponse{Content: []byte(planJSON)},
	))

	rec := doJSON(t, srv, http.MethodPost, "/guide/sessions", createBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		SessionID       string                 `json:"session_id"`
		Status          guide.Status           `json:"status"`
		KnowledgePoints []guide.KnowledgePoint `json:"knowledge_points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.SessionID) != 8 || resp.Status != guide.StatusInitialized {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.KnowledgePoints) != 1 {
		t.Errorf("points = %+v", resp.KnowledgePoints)
	}
}

func TestCreateSession_EmptyRecords(t *testing.T) {
	srv, _ := newTestServer(llm.NewMockProvider())

	body := createBody()
	body["records"] = []map[string]string{}
	rec := doJSON(t, srv, http.MethodPost, "/guide/sessions", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateSession_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(llm.NewMockProvider())

	req := httptest.NewRequest(http.MethodPost, "/guide/sessions", strings.NewReader("{oops"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStartAndArtifactPage(t *testing.T) {
	srv, repo := newTestServer(llm.NewMockProvider(
		llm.MockResponse{Content: []byte(`{"title": "Attention", "concept": "c", "key_points": ["k"],
			"example_problem": "p", "example_answer": "a", "check_question": "q", "next_hint": "n"}`)},
	))

	repo.Save(context.Background(), &guide.Session{
		SessionID:       "serve001",
		Status:          guide.StatusInitialized,
		KnowledgePoints: []guide.KnowledgePoint{{Title: "Attention"}},
	})

	rec := doJSON(t, srv, http.MethodPost, "/guide/sessions/serve001/start", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Status   guide.Status `json:"status"`
		Progress int          `json:"progress"`
		HTML     string       `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != guide.StatusLearning || resp.HTML == "" {
		t.Errorf("resp = %+v", resp)
	}

	page := doJSON(t, srv, http.MethodGet, "/guide/sessions/serve001/artifact", nil)
	if page.Code != http.StatusOK {
		t.Fatalf("artifact status = %d", page.Code)
	}
	if ct := page.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(page.Body.String(), "Attention") {
		t.Error("artifact page missing content")
	}
}

func TestChat_StatusMismatchMapsToConflict(t *testing.T) {
	srv, repo := newTestServer(llm.NewMockProvider())

	repo.Save(context.Background(), &guide.Session{
		SessionID:       "serve002",
		Status:          guide.StatusInitialized,
		KnowledgePoints: []guide.KnowledgePoint{{Title: "X"}},
	})

	rec := doJSON(t, srv, http.MethodPost, "/guide/sessions/serve002/chat",
		map[string]string{"message": "hello"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestChat_Success(t *testing.T) {
	srv, repo := newTestServer(llm.NewMockProvider(
		llm.MockResponse{Content: []byte("the answer")},
	))

	repo.Save(context.Background(), &guide.Session{
		SessionID:       "serve003",
		Status:          guide.StatusLearning,
		KnowledgePoints: []guide.KnowledgePoint{{Title: "X"}},
	})

	rec := doJSON(t, srv, http.MethodPost, "/guide/sessions/serve003/chat",
		map[string]string{"message": "why?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "the answer" {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestUnknownSessionMapsToNotFound(t *testing.T) {
	srv, _ := newTestServer(llm.NewMockProvider())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/guide/sessions/missing1/"},
		{http.MethodPost, "/guide/sessions/missing1/start"},
		{http.MethodPost, "/guide/sessions/missing1/next"},
	} {
		rec := doJSON(t, srv, tc.method, tc.path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}

func TestNext_CompletionReturnsSummary(t *testing.T) {
	srv, repo := newTestServer(llm.NewMockProvider(
		llm.MockResponse{Content: []byte("# All done")},
	))

	repo.Save(context.Background(), &guide.Session{
		SessionID:       "serve004",
		Status:          guide.StatusLearning,
		KnowledgePoints: []guide.KnowledgePoint{{Title: "Only point"}},
		CurrentIndex:    0,
	})

	rec := doJSON(t, srv, http.MethodPost, "/guide/sessions/serve004/next", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Status   guide.Status `json:"status"`
		Progress int          `json:"progress"`
		Summary  string       `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != guide.StatusCompleted || resp.Progress != 100 {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.Contains(resp.Summary, "All done") {
		t.Errorf("Summary = %q", resp.Summary)
	}
}

func TestFix_ReplacesArtifact(t *testing.T) {
	srv, repo := newTestServer(llm.NewMockProvider(
		llm.MockResponse{Content: []byte(`{"title": "Fixed", "concept": "c", "key_points": ["k"],
			"example_problem": "p", "example_answer": "a", "check_question": "q", "next_hint": "n"}`)},
	))

	repo.Save(context.Background(), &guide.Session{
		SessionID:       "serve005",
		Status:          guide.StatusLearning,
		KnowledgePoints: []guide.KnowledgePoint{{Title: "X"}},
		CurrentHTML:     "<html>broken</html>",
	})

	rec := doJSON(t, srv, http.MethodPost, "/guide/sessions/serve005/fix",
		map[string]string{"bug_description": "layout overlaps"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.HTML, "Fixed") {
		t.Errorf("HTML = %q", resp.HTML)
	}
}
