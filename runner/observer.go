package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/notion"
)

// statusUpdateTimeout bounds the out-of-band status call so a slow
// source never stalls the run.
const statusUpdateTimeout = 10 * time.Second

// StatusObserver advances the source page's status as the run
// progresses: "Drafting" once research passes its gate. Artifact
// commits stay with the sink at terminal state; this is a progression
// marker only, so update failures are logged and dropped.
type StatusObserver struct {
	source Source
	logger *slog.Logger
}

// NewStatusObserver creates a status-progression observer.
func NewStatusObserver(source Source, logger *slog.Logger) *StatusObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusObserver{source: source, logger: logger}
}

func (o *StatusObserver) RunStarted(*content.RunState)                       {}
func (o *StatusObserver) StageAttempt(*content.RunState, content.Stage, int) {}
func (o *StatusObserver) RunFinished(*content.RunState)                      {}

func (o *StatusObserver) GateVerdict(run *content.RunState, stage content.Stage, passed bool) {
	if stage != content.StageResearch || !passed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), statusUpdateTimeout)
	defer cancel()

	if err := o.source.MarkStatus(ctx, run.Item.ID, notion.StatusDrafting); err != nil {
		o.logger.Warn("status update failed",
			"item_id", run.Item.ID,
			"status", notion.StatusDrafting,
			"error", err)
	}
}
