// Package runner connects the orchestration engine to the outside
// world: it pulls pending work items from a source, drives each
// through the engine, commits terminal runs to the sink, and sends
// notifications. It implements the single, batch, and continuous
// processing modes.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/notion"
)

// Orchestrator drives one work item to a terminal run state.
type Orchestrator interface {
	Run(ctx context.Context, item content.WorkItem) *content.RunState
}

// Source supplies pending work items and accepts status updates.
type Source interface {
	FetchPending(ctx context.Context, since time.Time) ([]content.WorkItem, error)
	MarkStatus(ctx context.Context, itemID, status string) error
}

// Sink receives terminal runs. It is only ever called with a RunState
// whose status is final.
type Sink interface {
	Commit(ctx context.Context, run *content.RunState) error
}

// Notifier announces terminal runs. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, run *content.RunState)
}

// Checkpoint persists the last-processed timestamp across restarts.
type Checkpoint interface {
	Load() (time.Time, error)
	Save(t time.Time) error
}

// PollConfig tunes the continuous mode's adaptive polling.
type PollConfig struct {
	// ActiveInterval is the re-check delay after a non-empty batch.
	ActiveInterval time.Duration `yaml:"active_interval"`
	// IdleInterval is the delay between polls when nothing was found.
	IdleInterval time.Duration `yaml:"idle_interval"`
}

// DefaultPollConfig matches the fast-when-active, slow-when-idle
// polling scheme.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		ActiveInterval: 5 * time.Second,
		IdleInterval:   30 * time.Second,
	}
}

// Validate rejects nonsensical intervals.
func (c PollConfig) Validate() error {
	if c.ActiveInterval <= 0 {
		return fmt.Errorf("active_interval must be positive")
	}
	if c.IdleInterval <= 0 {
		return fmt.Errorf("idle_interval must be positive")
	}
	return nil
}

// Runner processes work items end to end.
type Runner struct {
	orchestrator Orchestrator
	source       Source
	sink         Sink
	notifier     Notifier
	checkpoint   Checkpoint
	poll         PollConfig
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithPollConfig overrides the polling intervals.
func WithPollConfig(cfg PollConfig) Option {
	return func(r *Runner) {
		r.poll = cfg
	}
}

// withClock substitutes the time source in tests.
func withClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a runner. The checkpoint may be nil for modes that do
// not persist state.
func New(orchestrator Orchestrator, source Source, sink Sink, notifier Notifier, checkpoint Checkpoint, opts ...Option) (*Runner, error) {
	if orchestrator == nil || source == nil || sink == nil || notifier == nil {
		return nil, fmt.Errorf("orchestrator, source, sink, and notifier are required")
	}

	r := &Runner{
		orchestrator: orchestrator,
		source:       source,
		sink:         sink,
		notifier:     notifier,
		checkpoint:   checkpoint,
		poll:         DefaultPollConfig(),
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.poll.Validate(); err != nil {
		return nil, fmt.Errorf("invalid poll config: %w", err)
	}
	return r, nil
}

// process drives one item through the engine and commits the outcome.
func (r *Runner) process(ctx context.Context, item content.WorkItem) *content.RunState {
	if err := r.source.MarkStatus(ctx, item.ID, notion.StatusResearching); err != nil {
		// The run can still proceed; the page just keeps its old status
		// until commit.
		r.logger.Warn("mark status failed", "item_id", item.ID, "error", err)
	}

	run := r.orchestrator.Run(ctx, item)

	if err := r.sink.Commit(ctx, run); err != nil {
		r.logger.Error("commit failed", "run_id", run.RunID, "item_id", item.ID, "error", err)
	}
	r.notifier.Notify(ctx, run)

	return run
}

// RunSingle processes the oldest pending item, if any. It reads no
// checkpoint and persists nothing. The bool reports whether an item
// was processed.
func (r *Runner) RunSingle(ctx context.Context) (bool, error) {
	items, err := r.source.FetchPending(ctx, time.Time{})
	if err != nil {
		return false, fmt.Errorf("fetch pending: %w", err)
	}
	if len(items) == 0 {
		r.logger.Info("no pending items")
		return false, nil
	}

	run := r.process(ctx, items[0])
	r.logger.Info("single run finished", "run_id", run.RunID, "status", run.Status)
	return true, nil
}

// RunBatch drains all items pending since the checkpoint and advances
// it. Returns how many items were processed.
func (r *Runner) RunBatch(ctx context.Context) (int, error) {
	var since time.Time
	if r.checkpoint != nil {
		var err error
		since, err = r.checkpoint.Load()
		if err != nil {
			return 0, fmt.Errorf("load checkpoint: %w", err)
		}
	}

	items, err := r.source.FetchPending(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("fetch pending: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	r.logger.Info("processing batch", "items", len(items))

	completed := 0
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		run := r.process(ctx, item)
		if run.Status == content.StatusCompleted {
			completed++
		}
	}

	if r.checkpoint != nil {
		if err := r.checkpoint.Save(r.now()); err != nil {
			r.logger.Warn("save checkpoint failed", "error", err)
		}
	}

	r.logger.Info("batch finished", "items", len(items), "completed", completed)
	return len(items), nil
}

// RunContinuous polls for work until the context is cancelled. A
// non-empty batch triggers a fast re-check; an empty one waits the
// idle interval. Fetch errors are logged and retried on the idle
// interval rather than ending the loop.
func (r *Runner) RunContinuous(ctx context.Context) error {
	r.logger.Info("continuous mode started",
		"active_interval", r.poll.ActiveInterval,
		"idle_interval", r.poll.IdleInterval)

	for {
		processed, err := r.RunBatch(ctx)
		if err != nil {
			r.logger.Error("batch failed", "error", err)
		}

		wait := r.poll.IdleInterval
		if processed > 0 {
			wait = r.poll.ActiveInterval
		}

		select {
		case <-ctx.Done():
			r.logger.Info("continuous mode stopped")
			return nil
		case <-time.After(wait):
		}
	}
}
