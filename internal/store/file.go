package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/guidekit/internal/guide"
)

// FileRepo stores one JSON file per session under a directory.
// Writes go to a temp file in the same directory and are published with
// an atomic rename.
type FileRepo struct {
	dir string
}

// NewFileRepo creates the directory if needed and returns a FileRepo.
func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) path(sessionID string) string {
	return filepath.Join(r.dir, "session_"+sessionID+".json")
}

// Save writes the full session snapshot atomically.
func (r *FileRepo) Save(_ context.Context, session *guide.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.SessionID, err)
	}

	path := r.path(session.SessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", session.SessionID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish session %s: %w", session.SessionID, err)
	}
	return nil
}

// Load reads a session snapshot, or ErrNotFound.
func (r *FileRepo) Load(_ context.Context, sessionID string) (*guide.Session, error) {
	data, err := os.ReadFile(r.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session %s: %w", sessionID, err)
	}

	var session guide.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &session, nil
}
