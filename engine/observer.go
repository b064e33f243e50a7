package engine

import "github.com/draftforge/draftforge/content"

// Observer receives run lifecycle events. Implementations must be
// cheap and must not block; the engine calls them inline.
type Observer interface {
	RunStarted(run *content.RunState)
	StageAttempt(run *content.RunState, stage content.Stage, attempt int)
	GateVerdict(run *content.RunState, stage content.Stage, passed bool)
	RunFinished(run *content.RunState)
}

// Observers fans events out to several observers in order.
type Observers []Observer

func (os Observers) RunStarted(run *content.RunState) {
	for _, o := range os {
		o.RunStarted(run)
	}
}

func (os Observers) StageAttempt(run *content.RunState, stage content.Stage, attempt int) {
	for _, o := range os {
		o.StageAttempt(run, stage, attempt)
	}
}

func (os Observers) GateVerdict(run *content.RunState, stage content.Stage, passed bool) {
	for _, o := range os {
		o.GateVerdict(run, stage, passed)
	}
}

func (os Observers) RunFinished(run *content.RunState) {
	for _, o := range os {
		o.RunFinished(run)
	}
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) RunStarted(*content.RunState)                       {}
func (NopObserver) StageAttempt(*content.RunState, content.Stage, int) {}
func (NopObserver) GateVerdict(*content.RunState, content.Stage, bool) {}
func (NopObserver) RunFinished(*content.RunState)                      {}
