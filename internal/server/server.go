// Package server exposes the session manager over HTTP. Every handler
// returns a JSON envelope; component failures are mapped to status
// codes and never surface as panics.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/guidekit/internal/guide"
	"github.com/abhisek/guidekit/internal/session"
)

// maxRequestBodySize caps request bodies at 1MB.
const maxRequestBodySize = 1 << 20

// Server routes HTTP requests to the session manager.
type Server struct {
	manager *session.Manager
	router  chi.Router
}

// New builds the server and its route table.
func New(manager *session.Manager) *Server {
	s := &Server{manager: manager}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/guide/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Post("/start", s.handleStart)
			r.Post("/next", s.handleNext)
			r.Post("/chat", s.handleChat)
			r.Post("/fix", s.handleFix)
			r.Get("/artifact", s.handleArtifact)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type createRequest struct {
	NotebookID   string                 `json:"notebook_id"`
	NotebookName string                 `json:"notebook_name"`
	Records      []guide.LearningRecord `json:"records"`
}

type createResponse struct {
	SessionID       string                 `json:"session_id"`
	Status          guide.Status           `json:"status"`
	KnowledgePoints []guide.KnowledgePoint `json:"knowledge_points"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.manager.Create(r.Context(), req.NotebookID, req.NotebookName, req.Records)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, createResponse{
		SessionID:       sess.SessionID,
		Status:          sess.Status,
		KnowledgePoints: sess.KnowledgePoints,
	})
}

type stepResponse struct {
	SessionID string       `json:"session_id"`
	Status    guide.Status `json:"status"`
	Progress  int          `json:"progress"`
	HTML      string       `json:"html,omitempty"`
	Summary   string       `json:"summary,omitempty"`
	Fallback  bool         `json:"fallback,omitempty"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	res, err := s.manager.Start(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stepResult(res))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	res, err := s.manager.Next(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stepResult(res))
}

func stepResult(res *session.StepResult) stepResponse {
	return stepResponse{
		SessionID: res.Session.SessionID,
		Status:    res.Session.Status,
		Progress:  res.Progress,
		HTML:      res.HTML,
		Summary:   res.Summary,
		Fallback:  res.Fallback,
	}
}

type chatRequest struct {
	Message string `json:"message"`
	// CheckQuestion is sent by the artifact page alongside answers to
	// its check-yourself prompt. The responder already knows the
	// question from the knowledge point, so it is accepted but unused.
	CheckQuestion string `json:"check_question,omitempty"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	answer, err := s.manager.Chat(r.Context(), chi.URLParam(r, "sessionID"), req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

type fixRequest struct {
	BugDescription string `json:"bug_description"`
}

type fixResponse struct {
	HTML     string `json:"html"`
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var req fixRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.manager.FixArtifact(r.Context(), chi.URLParam(r, "sessionID"), req.BugDescription)
	if err != nil && res.HTML == "" {
		s.writeError(w, err)
		return
	}
	resp := fixResponse{HTML: res.HTML, Fallback: res.Fallback}
	if err != nil {
		resp.Error = err.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// handleArtifact serves the current artifact as a browsable page.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if sess.CurrentHTML == "" {
		s.writeJSON(w, http.StatusNotFound, errorEnvelope{Error: "no artifact generated yet"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sess.CurrentHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var statusErr *guide.InvalidStatusError
	switch {
	case errors.Is(err, guide.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, guide.ErrNoRecords),
		errors.Is(err, guide.ErrNoKnowledgePoints),
		errors.Is(err, guide.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.As(err, &statusErr):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorEnvelope{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
