// Package config assembles application-level settings from the
// environment. Provider credentials and completion defaults live in
// the llm package's own config; this covers everything around it.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Backend selects the session persistence implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Config holds application settings.
type Config struct {
	// Language selects the prompt bundle language, with fallback to
	// English when the requested language has no templates.
	Language string
	// Backend picks the session store: "file" or "sqlite".
	Backend Backend
	// DataDir is the directory for file-backend session snapshots.
	DataDir string
	// DBPath overrides the SQLite database location.
	DBPath string
	// PromptsDir overrides the embedded prompt bundles on disk.
	PromptsDir string
	// ListenAddr is the HTTP bind address for the serve command.
	ListenAddr string
	// MaxTokens caps completion output length across all agents.
	MaxTokens int
	// Temperature applies to artifact and chat generation.
	Temperature float64
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Language:    "en",
		Backend:     BackendSQLite,
		DataDir:     defaultDataDir(),
		ListenAddr:  ":8080",
		MaxTokens:   8000,
		Temperature: 0.7,
	}
}

// FromEnv loads settings from GUIDEKIT_* variables on top of defaults.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("GUIDEKIT_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("GUIDEKIT_STORE"); v != "" {
		switch Backend(v) {
		case BackendFile, BackendSQLite:
			cfg.Backend = Backend(v)
		default:
			return cfg, fmt.Errorf("unknown GUIDEKIT_STORE %q (want file or sqlite)", v)
		}
	}
	if v := os.Getenv("GUIDEKIT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GUIDEKIT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GUIDEKIT_PROMPTS_DIR"); v != "" {
		cfg.PromptsDir = v
	}
	if v := os.Getenv("GUIDEKIT_LISTEN"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("GUIDEKIT_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("invalid GUIDEKIT_MAX_TOKENS %q", v)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("GUIDEKIT_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 2 {
			return cfg, fmt.Errorf("invalid GUIDEKIT_TEMPERATURE %q", v)
		}
		cfg.Temperature = f
	}
	return cfg, nil
}

func defaultDataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome + "/guidekit/sessions"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "guidekit-sessions"
	}
	return home + "/.local/share/guidekit/sessions"
}
