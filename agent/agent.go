// Package agent implements the generation stages: a researcher that
// gathers and synthesizes source material, and a writer that turns a
// research brief into a post draft. Both depend only on narrow
// capability interfaces so tests can substitute mocks.
package agent

import (
	"fmt"
	"strings"

	"github.com/draftforge/draftforge/content"
)

// Request carries the inputs for one stage invocation. Feedback holds
// reviewer guidance from earlier rejected attempts, oldest first.
type Request struct {
	Topic    string
	Goal     content.Goal
	Context  string
	Brief    *content.ResearchBrief
	Feedback []string
}

// validate checks the fields every stage requires.
func (r Request) validate() error {
	if r.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if !r.Goal.Valid() {
		return fmt.Errorf("unknown goal %q", r.Goal)
	}
	return nil
}

// feedbackSection renders accumulated reviewer feedback for inclusion
// in a user prompt. Returns an empty string when there is none.
func feedbackSection(feedback []string) string {
	if len(feedback) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nPrevious attempts were rejected. Address ALL of the following feedback:\n")
	for i, fb := range feedback {
		fmt.Fprintf(&sb, "\nAttempt %d feedback:\n%s\n", i+1, fb)
	}
	return sb.String()
}
