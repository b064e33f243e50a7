package content

import (
	"fmt"
	"time"
)

// WorkItem is one unit of input to the pipeline: a topic plus the content
// goal it should be written for. Immutable once accepted for a run.
type WorkItem struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Goal      Goal      `json:"goal"`
	Context   string    `json:"context,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Validate checks that the work item can enter the pipeline.
func (w WorkItem) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("work item has no ID")
	}
	if w.Topic == "" {
		return fmt.Errorf("work item %s has no topic", w.ID)
	}
	if !w.Goal.Valid() {
		return fmt.Errorf("work item %s has unknown goal %q", w.ID, w.Goal)
	}
	return nil
}
