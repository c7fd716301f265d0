// Package cmd wires the guidekit command-line interface.
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/guidekit/internal/artifact"
	"github.com/abhisek/guidekit/internal/chat"
	"github.com/abhisek/guidekit/internal/config"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/planner"
	"github.com/abhisek/guidekit/internal/prompts"
	"github.com/abhisek/guidekit/internal/session"
	"github.com/abhisek/guidekit/internal/store"
	"github.com/abhisek/guidekit/internal/summary"
)

var rootCmd = &cobra.Command{
	Use:   "guidekit",
	Short: "LLM-guided learning sessions from your notes",
	Long: "Guidekit turns a set of learning records into an ordered curriculum,\n" +
		"then walks the learner through each knowledge point with generated\n" +
		"interactive artifacts, scoped chat, and a final summary.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		// Optional; real env vars win over .env entries.
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GUIDEKIT_DB)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using the --db flag, then
// GUIDEKIT_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return store.DefaultDBPath()
}

// buildManager assembles the session manager and its components from
// application config, a provider, and a session repository.
func buildManager(cfg config.Config, provider llm.Provider, repo store.SessionRepo) *session.Manager {
	loader := prompts.NewLoader(cfg.PromptsDir)

	plannerCfg := planner.DefaultConfig()
	plannerCfg.Language = cfg.Language
	plannerCfg.MaxTokens = cfg.MaxTokens

	artifactCfg := artifact.DefaultConfig()
	artifactCfg.Language = cfg.Language
	artifactCfg.MaxTokens = cfg.MaxTokens
	artifactCfg.Temperature = cfg.Temperature

	chatCfg := chat.DefaultConfig()
	chatCfg.Language = cfg.Language
	chatCfg.Temperature = cfg.Temperature

	summaryCfg := summary.DefaultConfig()
	summaryCfg.Language = cfg.Language
	summaryCfg.MaxTokens = cfg.MaxTokens

	return session.New(
		store.NewCache(repo),
		planner.New(provider, loader, plannerCfg),
		artifact.New(provider, loader, artifactCfg),
		chat.New(provider, loader, chatCfg),
		summary.New(provider, loader, summaryCfg),
	)
}

// openRepo opens the configured session store backend. The returned
// close function is a no-op for the file backend.
func openRepo(cmd *cobra.Command, cfg config.Config) (store.SessionRepo, store.EventRepo, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		repo, err := store.NewFileRepo(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return repo, nil, func() error { return nil }, nil
	default:
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("resolve database path: %w", err)
		}
		repo, err := store.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		return repo, repo, repo.Close, nil
	}
}
