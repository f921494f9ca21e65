// Package server parses game server flags and runs the HTTP service process
// lifecycle.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openplay/jockeys/internal/agent"
	"github.com/openplay/jockeys/internal/api/httpapi"
	"github.com/openplay/jockeys/internal/game"
	"github.com/openplay/jockeys/internal/platform/config"
	"github.com/openplay/jockeys/internal/platform/metrics"
	"github.com/openplay/jockeys/internal/platform/otel"
	"github.com/openplay/jockeys/internal/registry"
	"github.com/openplay/jockeys/internal/turn"
)

const shutdownTimeout = 5 * time.Second

// Config holds game server configuration.
type Config struct {
	Port               int    `env:"JOCKEYS_PORT" envDefault:"8089"`
	OpenAIAPIKey       string `env:"JOCKEYS_OPENAI_API_KEY"`
	OpenAIModel        string `env:"JOCKEYS_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIResponsesURL string `env:"JOCKEYS_OPENAI_RESPONSES_URL"`
	RetryAttempts      int    `env:"JOCKEYS_AI_RETRY_ATTEMPTS" envDefault:"2"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game HTTP server port")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game service and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config) error {
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("JOCKEYS_OPENAI_API_KEY is required; get a key from https://platform.openai.com/")
	}

	otelShutdown, err := otel.Setup(ctx, "jockeys")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	m := metrics.New(promRegistry)

	invoker := agent.NewOpenAI(agent.OpenAIConfig{
		ResponsesURL: cfg.OpenAIResponsesURL,
		APIKey:       cfg.OpenAIAPIKey,
		Model:        cfg.OpenAIModel,
	})
	reg, err := registry.New(registry.Config{
		Factory:              orchestratorFactory(invoker),
		DefaultRetryAttempts: cfg.RetryAttempts,
	})
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	api := httpapi.NewServer(reg, m, promRegistry)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("game server listening at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// orchestratorFactory wires one player agent per automated seat and a shared
// validator, all backed by the same model invoker.
func orchestratorFactory(invoker agent.Invoker) registry.Factory {
	return func(session *game.Session, retryAttempts int) (*turn.Orchestrator, error) {
		proposers := make(map[int]turn.Proposer)
		for _, p := range session.Players() {
			if !p.Human {
				proposers[p.ID] = agent.NewPlayerAgent(p.ID, invoker)
			}
		}
		return turn.New(turn.Config{
			Session:       session,
			Proposers:     proposers,
			Validator:     agent.NewValidatorAgent(invoker),
			RetryAttempts: retryAttempts,
		})
	}
}
