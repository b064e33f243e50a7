package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/draftforge/draftforge/agent"
	"github.com/draftforge/draftforge/config"
	"github.com/draftforge/draftforge/engine"
	"github.com/draftforge/draftforge/gate"
	"github.com/draftforge/draftforge/llm"
	"github.com/draftforge/draftforge/metrics"
	"github.com/draftforge/draftforge/notion"
	"github.com/draftforge/draftforge/runner"
	"github.com/draftforge/draftforge/search"
	"github.com/draftforge/draftforge/slack"
)

// App wires the pipeline together: generation client, agents, gates,
// engine, and the runner that connects them to the content database.
type App struct {
	Runner *runner.Runner
	Logger *slog.Logger

	cfg        *config.Config
	engine     *engine.Engine
	source     *notion.Client
	notifier   *slack.Notifier
	checkpoint *notion.FileCheckpoint
	metrics    *metrics.Metrics
	server     *http.Server
}

// NewApp builds the full pipeline from configuration. Secrets are read
// from the environment; ValidateSecrets must have passed already.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	completer, err := llm.NewClient(cfg.Model.LLMEndpoints(),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
		llm.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create generation client: %w", err)
	}

	searcher, err := search.NewTavilyClient(os.Getenv(config.EnvTavilyKey),
		search.WithTavilyDepth(cfg.Search.Depth),
	)
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}

	researcher := agent.NewResearcher(completer, searcher,
		agent.WithMaxSearchResults(cfg.Search.MaxResults),
		agent.WithPageReader(search.NewReader()),
		agent.WithResearcherLogger(logger),
	)
	writer := agent.NewWriter(completer, cfg.Gates,
		agent.WithWriterLogger(logger),
	)

	source, err := notion.NewClient(os.Getenv(config.EnvNotionToken), cfg.Notion.DatabaseID,
		notion.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create notion client: %w", err)
	}

	observers := engine.Observers{runner.NewStatusObserver(source, logger)}
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		observers = append(observers, m)
	}

	eng, err := engine.New(researcher, writer,
		gate.NewResearchGate(cfg.Gates),
		gate.NewWritingGate(cfg.Gates),
		cfg.Engine,
		engine.WithLogger(logger),
		engine.WithObserver(observers),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	notifier := slack.NewNotifier(os.Getenv(config.EnvSlackWebhook),
		slack.WithLogger(logger),
	)
	checkpoint := notion.NewFileCheckpoint(cfg.Notion.CheckpointPath)

	r, err := runner.New(eng, source, source, notifier, checkpoint,
		runner.WithLogger(logger),
		runner.WithPollConfig(cfg.Poll),
	)
	if err != nil {
		return nil, fmt.Errorf("create runner: %w", err)
	}

	return &App{
		Runner:     r,
		Logger:     logger,
		cfg:        cfg,
		engine:     eng,
		source:     source,
		notifier:   notifier,
		checkpoint: checkpoint,
		metrics:    m,
	}, nil
}

// SetIdleInterval rebuilds the runner with an overridden idle polling
// interval. Used when continuous mode gets an explicit interval.
func (a *App) SetIdleInterval(idle time.Duration) error {
	poll := a.cfg.Poll
	poll.IdleInterval = idle

	r, err := runner.New(a.engine, a.source, a.source, a.notifier, a.checkpoint,
		runner.WithLogger(a.Logger),
		runner.WithPollConfig(poll),
	)
	if err != nil {
		return err
	}
	a.Runner = r
	return nil
}

// StartMetrics serves the Prometheus endpoint when metrics are
// enabled. The listener runs until Shutdown.
func (a *App) StartMetrics(ctx context.Context) {
	if a.metrics == nil {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.server = &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux}

	go func() {
		a.Logger.Info("metrics listening", "addr", a.cfg.Metrics.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Shutdown stops background listeners.
func (a *App) Shutdown() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.server.Shutdown(ctx)
	}
}
