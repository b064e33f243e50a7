package content

import (
	"strings"
	"testing"
)

func testItem() WorkItem {
	return WorkItem{ID: "page-1", Topic: "AI agents", Goal: GoalThoughtLeadership}
}

func TestNewRunState(t *testing.T) {
	state := NewRunState(testItem())

	if state.RunID == "" {
		t.Error("expected a run ID")
	}
	if state.Status != StatusInProgress {
		t.Errorf("Status = %q, want %q", state.Status, StatusInProgress)
	}
	if state.Terminal() {
		t.Error("fresh run should not be terminal")
	}
	if got := state.Retries(StageResearch); got != 0 {
		t.Errorf("Retries(research) = %d, want 0", got)
	}
	if got := state.Attempts(StageWrite); got != 1 {
		t.Errorf("Attempts(write) = %d, want 1", got)
	}
	if state.Brief != nil || state.Draft != nil {
		t.Error("fresh run should have no artifacts")
	}
}

func TestRunStateFeedbackAccumulates(t *testing.T) {
	state := NewRunState(testItem())

	state.AppendFeedback(StageResearch, 1, "fail", "too few insights")
	state.AppendFeedback(StageResearch, 2, "pass", "")
	state.AppendFeedback(StageWrite, 1, "fail", "body too short")

	if len(state.FeedbackLog) != 3 {
		t.Fatalf("FeedbackLog length = %d, want 3", len(state.FeedbackLog))
	}

	research := state.StageFeedback(StageResearch)
	if len(research) != 2 {
		t.Fatalf("StageFeedback(research) length = %d, want 2", len(research))
	}
	if research[0].Attempt != 1 || research[0].Verdict != "fail" {
		t.Errorf("unexpected first entry: %+v", research[0])
	}
	if !strings.Contains(research[0].Feedback, "insights") {
		t.Errorf("feedback text lost: %+v", research[0])
	}
}

func TestRunStateFinish(t *testing.T) {
	state := NewRunState(testItem())

	if err := state.Finish(StatusInProgress, ""); err == nil {
		t.Error("finishing with a non-terminal status should fail")
	}

	if err := state.Finish(StatusCompleted, ""); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if !state.Terminal() {
		t.Error("run should be terminal after Finish")
	}
	if state.CompletedAt.IsZero() {
		t.Error("CompletedAt should be set")
	}

	// Terminal states are immutable.
	if err := state.Finish(StatusFailedFatal, "again"); err == nil {
		t.Error("double Finish should fail")
	}
	state.RecordRetry(StageWrite)
	if state.Retries(StageWrite) != 0 {
		t.Error("RecordRetry should be a no-op after Finish")
	}
	state.AppendFeedback(StageWrite, 1, "fail", "late entry")
	if len(state.FeedbackLog) != 0 {
		t.Error("AppendFeedback should be a no-op after Finish")
	}
}

func TestRunStateRetryCounting(t *testing.T) {
	state := NewRunState(testItem())

	state.RecordRetry(StageWrite)
	state.RecordRetry(StageWrite)

	if got := state.Retries(StageWrite); got != 2 {
		t.Errorf("Retries(write) = %d, want 2", got)
	}
	if got := state.Attempts(StageWrite); got != 3 {
		t.Errorf("Attempts(write) = %d, want 3", got)
	}
	if got := state.Retries(StageResearch); got != 0 {
		t.Errorf("Retries(research) = %d, want 0", got)
	}
}
