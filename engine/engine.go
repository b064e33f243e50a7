// Package engine implements the orchestration state machine that
// drives one work item from research through review to a finished
// draft. Each run owns a single RunState; stages execute strictly
// sequentially and quality-gate retries are bounded per stage.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/draftforge/draftforge/agent"
	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/gate"
	"github.com/draftforge/draftforge/llm"
)

// State identifies a node in the orchestration state machine.
type State string

const (
	StateResearch      State = "RESEARCH"
	StateResearchCheck State = "RESEARCH_CHECK"
	StateWrite         State = "WRITE"
	StateWriteCheck    State = "WRITE_CHECK"
	StateDone          State = "DONE"
	StateFailed        State = "FAILED"
)

// ResearchExecutor runs one research attempt.
type ResearchExecutor interface {
	Research(ctx context.Context, req agent.Request) (*content.ResearchBrief, error)
}

// WriteExecutor runs one writing attempt.
type WriteExecutor interface {
	Write(ctx context.Context, req agent.Request) (*content.Draft, error)
}

// ResearchEvaluator reviews a research brief. Evaluation must be a
// pure function of the artifact and goal.
type ResearchEvaluator interface {
	Evaluate(brief *content.ResearchBrief, goal content.Goal) *gate.Verdict
}

// WriteEvaluator reviews a draft.
type WriteEvaluator interface {
	Evaluate(draft *content.Draft, goal content.Goal) *gate.Verdict
}

// Engine is the orchestrator. Create one with New and share it freely;
// each Run call owns its RunState and nothing is shared between runs.
type Engine struct {
	researcher   ResearchExecutor
	writer       WriteExecutor
	researchGate ResearchEvaluator
	writingGate  WriteEvaluator
	cfg          Config
	observer     Observer
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver attaches a lifecycle observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an orchestration engine.
func New(researcher ResearchExecutor, writer WriteExecutor, researchGate ResearchEvaluator, writingGate WriteEvaluator, cfg Config, opts ...Option) (*Engine, error) {
	if researcher == nil || writer == nil || researchGate == nil || writingGate == nil {
		return nil, fmt.Errorf("all executors and gates are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	e := &Engine{
		researcher:   researcher,
		writer:       writer,
		researchGate: researchGate,
		writingGate:  writingGate,
		cfg:          cfg,
		observer:     NopObserver{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run drives one work item to a terminal status. It always returns a
// RunState whose status is terminal; failures are recorded in the
// state, never raised.
func (e *Engine) Run(ctx context.Context, item content.WorkItem) *content.RunState {
	run := content.NewRunState(item)
	e.observer.RunStarted(run)
	e.logger.Info("run started",
		"run_id", run.RunID,
		"item_id", item.ID,
		"topic", item.Topic,
		"goal", item.Goal)

	if err := item.Validate(); err != nil {
		e.finish(run, content.StatusFailedFatal, fmt.Sprintf("invalid work item: %v", err))
		return run
	}

	// Reviewer feedback accumulated per stage, forwarded into every
	// retry so the loop is informed rather than blind.
	var researchFeedback, writeFeedback []string

	state := StateResearch
	for {
		// Cancellation is honored between stage boundaries only; an
		// in-flight executor call runs to completion.
		if err := ctx.Err(); err != nil {
			e.finish(run, content.StatusFailedFatal, fmt.Sprintf("run cancelled in state %s: %v", state, err))
			return run
		}

		switch state {
		case StateResearch:
			attempt := run.Attempts(content.StageResearch)
			e.observer.StageAttempt(run, content.StageResearch, attempt)

			brief, err := e.invokeResearch(ctx, item, researchFeedback)
			if err != nil {
				state = e.handleExecutorFailure(run, content.StageResearch, attempt, err)
				if state == StateFailed {
					return run
				}
				continue
			}
			run.Brief = brief
			state = StateResearchCheck

		case StateResearchCheck:
			verdict := e.researchGate.Evaluate(run.Brief, item.Goal)
			e.observer.GateVerdict(run, content.StageResearch, verdict.Pass)
			if verdict.Pass {
				e.logger.Info("research approved", "run_id", run.RunID, "attempt", run.Attempts(content.StageResearch))
				state = StateWrite
				continue
			}

			feedback := verdict.Feedback()
			run.AppendFeedback(content.StageResearch, run.Attempts(content.StageResearch), "fail", feedback)
			if run.Retries(content.StageResearch) >= e.cfg.MaxRetries[content.StageResearch] {
				e.finish(run, content.StatusFailedExhausted,
					fmt.Sprintf("research rejected after %d attempts", run.Attempts(content.StageResearch)))
				return run
			}
			run.RecordRetry(content.StageResearch)
			researchFeedback = append(researchFeedback, feedback)
			e.logger.Info("research rejected, retrying",
				"run_id", run.RunID,
				"retry", run.Retries(content.StageResearch),
				"rules", verdict.Rules())
			state = StateResearch

		case StateWrite:
			if run.Brief == nil {
				// Contract violation: the transition table never enters
				// WRITE without an approved brief.
				e.finish(run, content.StatusFailedFatal, "write stage entered without a research brief")
				return run
			}
			attempt := run.Attempts(content.StageWrite)
			e.observer.StageAttempt(run, content.StageWrite, attempt)

			draft, err := e.invokeWrite(ctx, item, run.Brief, writeFeedback)
			if err != nil {
				state = e.handleExecutorFailure(run, content.StageWrite, attempt, err)
				if state == StateFailed {
					return run
				}
				continue
			}
			run.Draft = draft
			state = StateWriteCheck

		case StateWriteCheck:
			verdict := e.writingGate.Evaluate(run.Draft, item.Goal)
			e.observer.GateVerdict(run, content.StageWrite, verdict.Pass)
			if verdict.Pass {
				e.finish(run, content.StatusCompleted, "")
				return run
			}

			feedback := verdict.Feedback()
			run.AppendFeedback(content.StageWrite, run.Attempts(content.StageWrite), "fail", feedback)
			if run.Retries(content.StageWrite) >= e.cfg.MaxRetries[content.StageWrite] {
				e.finish(run, content.StatusFailedExhausted,
					fmt.Sprintf("draft rejected after %d attempts", run.Attempts(content.StageWrite)))
				return run
			}
			run.RecordRetry(content.StageWrite)
			writeFeedback = append(writeFeedback, feedback)
			e.logger.Info("draft rejected, retrying",
				"run_id", run.RunID,
				"retry", run.Retries(content.StageWrite),
				"rules", verdict.Rules())
			state = StateWrite

		default:
			e.finish(run, content.StatusFailedFatal, fmt.Sprintf("unknown state %q", state))
			return run
		}
	}
}

// invokeResearch runs the research executor under the stage time
// bound.
func (e *Engine) invokeResearch(ctx context.Context, item content.WorkItem, feedback []string) (*content.ResearchBrief, error) {
	stageCtx, cancel := e.stageContext(ctx)
	defer cancel()

	return e.researcher.Research(stageCtx, agent.Request{
		Topic:    item.Topic,
		Goal:     item.Goal,
		Context:  item.Context,
		Feedback: feedback,
	})
}

// invokeWrite runs the write executor under the stage time bound.
func (e *Engine) invokeWrite(ctx context.Context, item content.WorkItem, brief *content.ResearchBrief, feedback []string) (*content.Draft, error) {
	stageCtx, cancel := e.stageContext(ctx)
	defer cancel()

	return e.writer.Write(stageCtx, agent.Request{
		Topic:    item.Topic,
		Goal:     item.Goal,
		Context:  item.Context,
		Brief:    brief,
		Feedback: feedback,
	})
}

func (e *Engine) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.StageTimeout > 0 {
		return context.WithTimeout(ctx, e.cfg.StageTimeout)
	}
	return context.WithCancel(ctx)
}

// handleExecutorFailure records a failed stage invocation and decides
// the next state. Timeouts follow the configured policy; everything
// else ends the run.
func (e *Engine) handleExecutorFailure(run *content.RunState, stage content.Stage, attempt int, err error) State {
	if errors.Is(err, context.DeadlineExceeded) && e.cfg.TimeoutPolicy == TimeoutRetry {
		run.AppendFeedback(stage, attempt, "error", fmt.Sprintf("stage timed out: %v", err))
		if run.Retries(stage) >= e.cfg.MaxRetries[stage] {
			e.finish(run, content.StatusFailedExhausted,
				fmt.Sprintf("%s stage timed out on all %d attempts", stage, attempt))
			return StateFailed
		}
		run.RecordRetry(stage)
		e.logger.Warn("stage timed out, retrying",
			"run_id", run.RunID,
			"stage", stage,
			"retry", run.Retries(stage))
		if stage == content.StageResearch {
			return StateResearch
		}
		return StateWrite
	}

	run.AppendFeedback(stage, attempt, "error", err.Error())

	reason := fmt.Sprintf("%s stage failed: %v", stage, err)
	if llm.IsTransient(err) {
		reason = fmt.Sprintf("%s stage failed after service retries: %v", stage, err)
	}
	e.finish(run, content.StatusFailedFatal, reason)
	return StateFailed
}

// finish moves the run to a terminal status exactly once.
func (e *Engine) finish(run *content.RunState, status content.Status, reason string) {
	if err := run.Finish(status, reason); err != nil {
		e.logger.Error("finish run", "run_id", run.RunID, "error", err)
		return
	}
	e.observer.RunFinished(run)
	e.logger.Info("run finished",
		"run_id", run.RunID,
		"status", status,
		"reason", reason,
		"duration", run.Duration(),
		"research_attempts", run.Attempts(content.StageResearch),
		"write_attempts", run.Attempts(content.StageWrite))
}
