package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/notion"
)

func TestStatusObserverMarksDraftingOnResearchPass(t *testing.T) {
	source := &fakeSource{}
	obs := NewStatusObserver(source, nil)

	item := content.WorkItem{ID: "page-1", Topic: "topic", Goal: content.GoalEducational}
	run := content.NewRunState(item)

	obs.GateVerdict(run, content.StageResearch, true)

	assert.Equal(t, []string{"page-1"}, source.markedItems)
	assert.Equal(t, []string{notion.StatusDrafting}, source.markedAs)
}

func TestStatusObserverIgnoresOtherVerdicts(t *testing.T) {
	source := &fakeSource{}
	obs := NewStatusObserver(source, nil)

	run := content.NewRunState(content.WorkItem{ID: "page-1", Topic: "t", Goal: content.GoalProduct})

	obs.GateVerdict(run, content.StageResearch, false)
	obs.GateVerdict(run, content.StageWrite, true)
	obs.GateVerdict(run, content.StageWrite, false)

	assert.Empty(t, source.markedItems, "only a research PASS advances status")
}
