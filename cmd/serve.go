package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/guidekit/internal/config"
	"github.com/abhisek/guidekit/internal/llm"
	"github.com/abhisek/guidekit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for guided learning sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
			cfg.ListenAddr = addr
		}

		repo, events, closeRepo, err := openRepo(cmd, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeRepo(); err != nil {
				slog.Error("close store", "error", err)
			}
		}()

		llmCfg := llm.ConfigFromEnv()
		if err := llmCfg.Validate(); err != nil {
			discovered, ok := llm.DiscoverConfig()
			if !ok {
				return fmt.Errorf("llm configuration: %w", err)
			}
			llmCfg = discovered
		}
		provider, err := llm.NewProvider(cmd.Context(), llmCfg, events)
		if err != nil {
			return fmt.Errorf("create provider: %w", err)
		}

		manager := buildManager(cfg, provider, repo)
		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           server.New(manager),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("listening", "addr", cfg.ListenAddr, "store", string(cfg.Backend), "model", provider.ModelID())
			errCh <- srv.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-stop:
			slog.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Bind address (overrides GUIDEKIT_LISTEN)")
}
