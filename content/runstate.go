package content

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage names the two generation stages a run moves through.
type Stage string

const (
	StageResearch Stage = "research"
	StageWrite    Stage = "write"
)

// Status is the lifecycle status of a run.
type Status string

const (
	// StatusInProgress means the run is still moving through the state machine.
	StatusInProgress Status = "in-progress"
	// StatusCompleted means both stages passed their gates.
	StatusCompleted Status = "completed"
	// StatusFailedExhausted means a gate kept failing until the stage's
	// retry budget ran out. A normal, reportable outcome.
	StatusFailedExhausted Status = "failed-exhausted"
	// StatusFailedFatal means an executor failed permanently, the run was
	// cancelled, or a stage timed out under a fatal timeout policy.
	StatusFailedFatal Status = "failed-fatal"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailedExhausted || s == StatusFailedFatal
}

// FeedbackEntry is one audit-trail record: the verdict a stage attempt
// received and the feedback that was carried into the next attempt.
type FeedbackEntry struct {
	Stage    Stage     `json:"stage"`
	Attempt  int       `json:"attempt"` // 1-based invocation number for the stage
	Verdict  string    `json:"verdict"` // "pass", "fail", or "error"
	Feedback string    `json:"feedback,omitempty"`
	At       time.Time `json:"at"`
}

// RunState accumulates everything produced while processing one WorkItem.
// It is owned by exactly one run; nothing here is safe for concurrent use
// and nothing needs to be. Artifacts only ever accumulate: gates annotate
// via the feedback log, they never mutate Brief or Draft.
type RunState struct {
	RunID string   `json:"run_id"`
	Item  WorkItem `json:"work_item"`

	// Brief is non-nil only after the researcher has executed at least once.
	Brief *ResearchBrief `json:"research_brief,omitempty"`
	// Draft is non-nil only after the writer has executed at least once.
	// On an exhausted run it holds the last still-failing artifact for
	// diagnostics.
	Draft *Draft `json:"draft,omitempty"`

	RetryCounts map[Stage]int   `json:"retry_counts"`
	FeedbackLog []FeedbackEntry `json:"feedback_log"`

	Status     Status `json:"terminal_status"`
	FailReason string `json:"fail_reason,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// NewRunState creates the run record for a work item.
func NewRunState(item WorkItem) *RunState {
	return &RunState{
		RunID:       uuid.New().String(),
		Item:        item,
		RetryCounts: map[Stage]int{StageResearch: 0, StageWrite: 0},
		Status:      StatusInProgress,
		StartedAt:   time.Now(),
	}
}

// Terminal reports whether the run has reached a final status.
func (s *RunState) Terminal() bool {
	return s.Status.Terminal()
}

// Attempts returns the number of invocations made for a stage so far:
// one initial attempt plus any retries.
func (s *RunState) Attempts(stage Stage) int {
	return s.RetryCounts[stage] + 1
}

// Retries returns the retry count for a stage (attempts beyond the first).
func (s *RunState) Retries(stage Stage) int {
	return s.RetryCounts[stage]
}

// RecordRetry increments the retry counter for a stage. No-op once the
// run is terminal.
func (s *RunState) RecordRetry(stage Stage) {
	if s.Terminal() {
		return
	}
	s.RetryCounts[stage]++
}

// AppendFeedback appends an audit-trail entry. Entries are never removed.
// No-op once the run is terminal.
func (s *RunState) AppendFeedback(stage Stage, attempt int, verdict, feedback string) {
	if s.Terminal() {
		return
	}
	s.FeedbackLog = append(s.FeedbackLog, FeedbackEntry{
		Stage:    stage,
		Attempt:  attempt,
		Verdict:  verdict,
		Feedback: feedback,
		At:       time.Now(),
	})
}

// StageFeedback returns the feedback log entries for one stage.
func (s *RunState) StageFeedback(stage Stage) []FeedbackEntry {
	var entries []FeedbackEntry
	for _, e := range s.FeedbackLog {
		if e.Stage == stage {
			entries = append(entries, e)
		}
	}
	return entries
}

// Finish moves the run to a terminal status. It fails if the run is
// already terminal: terminal states are immutable.
func (s *RunState) Finish(status Status, reason string) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot finish run %s with non-terminal status %q", s.RunID, status)
	}
	if s.Terminal() {
		return fmt.Errorf("run %s already finished with status %q", s.RunID, s.Status)
	}
	s.Status = status
	s.FailReason = reason
	s.CompletedAt = time.Now()
	return nil
}

// Duration returns how long the run took, or time since start if still
// in progress.
func (s *RunState) Duration() time.Duration {
	if s.CompletedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
