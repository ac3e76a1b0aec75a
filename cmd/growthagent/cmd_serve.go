package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/growthagent/internal/agent"
	"github.com/user/growthagent/internal/audit"
	"github.com/user/growthagent/internal/server"
	"github.com/user/growthagent/internal/telegram"
	"github.com/user/growthagent/internal/tools"
	"github.com/user/growthagent/pkg/llm"
	"github.com/user/growthagent/pkg/llm/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// LLM provider
	provider := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	// Tool catalog
	registry, err := tools.NewCatalog(cfg.DataService.BaseURL)
	if err != nil {
		return fmt.Errorf("build tool catalog: %w", err)
	}

	// Audit recorder
	recorder, err := audit.New(cfg.LLM.Model)
	if err != nil {
		return fmt.Errorf("create audit recorder: %w", err)
	}

	// Orchestration loop
	loop := agent.New(provider, registry, recorder, cfg.MaxToolRounds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Chat API server
	srv := server.New(loop, cfg.MaxConcurrent)
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv,
	}
	go func() {
		slog.Info("chat server started", "listen", cfg.Listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("chat server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	slog.Info("growthagent started",
		"log_level", cfg.LogLevel,
		"max_concurrent", cfg.MaxConcurrent,
		"max_tool_rounds", cfg.MaxToolRounds,
		"llm_model", cfg.LLM.Model,
		"tools", len(registry.All()),
	)

	// Telegram adapter
	if cfg.Telegram.Token != "" {
		adapter, err := telegram.New(cfg.Telegram.Token, loop, cfg.DataService.Token)
		if err != nil {
			return fmt.Errorf("create telegram adapter: %w", err)
		}
		go adapter.Start(ctx)
		slog.Info("telegram adapter started")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	slog.Info("shutting down", "signal", sig)
	return nil
}
