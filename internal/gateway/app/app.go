package app

import (
	"context"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"flightassist/internal/agent"
	"flightassist/internal/flightstore"
	"flightassist/internal/gateway/config"
	"flightassist/internal/gateway/handler"
	"flightassist/internal/gateway/server"
	"flightassist/internal/llmclient"
)

type App struct {
	server *server.Server
	client llmclient.ChatClient
}

// New loads configuration and wires every dependency explicitly: the chat
// client and config are built once here and passed down, never looked up
// through globals.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newChatClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	store, err := flightstore.NewFileStore(cfg.Data.Dir, cfg.Data.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize flight store: %w", err)
	}

	if err := agent.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	flightAgent := agent.New(client, cfg.LLM.Model, log.Default())

	analyzeHandler := handler.NewAnalyzeHandler(flightAgent, store, log.Default())
	statusHandler := handler.NewStatusHandler(flightAgent, cfg.LLM.Provider)

	mux := server.NewMux(analyzeHandler, statusHandler)
	srv := server.New(cfg.Port, mux)

	return &App{server: srv, client: client}, nil
}

// newChatClient builds the configured provider. A missing OpenAI key is not
// fatal here: the agent reports "not initialized" per request instead, so
// the status endpoint stays reachable.
func newChatClient(ctx context.Context, cfg config.LLMConfig) (llmclient.ChatClient, error) {
	switch cfg.Provider {
	case "gemini":
		return llmclient.NewGeminiClient(ctx)
	case "openai":
		cli := llmclient.NewOpenAIClient(cfg.APIKey, cfg.Endpoint)
		if !cli.Available() {
			log.Printf("OpenAI API key not configured; analysis requests will be rejected")
			return nil, nil
		}
		return cli, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.client != nil {
		_ = a.client.Close()
	}
	return a.server.Shutdown(ctx)
}
