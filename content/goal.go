// Package content defines the artifact model for the post pipeline:
// work items, research briefs, drafts, and the per-run state record.
package content

import (
	"fmt"
	"strings"
)

// Goal is the content category of a work item. Gate thresholds, prompt
// guidance, and visual-asset recommendations are all keyed by goal.
type Goal string

const (
	GoalThoughtLeadership Goal = "thought-leadership"
	GoalProduct           Goal = "product"
	GoalEducational       Goal = "educational"
	GoalPersonalBrand     Goal = "personal-brand"
	GoalInteractive       Goal = "interactive"
	GoalInspirational     Goal = "inspirational"
)

// goalLabels maps goals to the human-readable labels used by the work-item
// database ("Thought Leadership", "Personal Brand", ...).
var goalLabels = map[Goal]string{
	GoalThoughtLeadership: "Thought Leadership",
	GoalProduct:           "Product",
	GoalEducational:       "Educational",
	GoalPersonalBrand:     "Personal Brand",
	GoalInteractive:       "Interactive",
	GoalInspirational:     "Inspirational",
}

// AllGoals returns every enumerated goal in a stable order.
func AllGoals() []Goal {
	return []Goal{
		GoalThoughtLeadership,
		GoalProduct,
		GoalEducational,
		GoalPersonalBrand,
		GoalInteractive,
		GoalInspirational,
	}
}

// Valid reports whether g is one of the enumerated goals.
func (g Goal) Valid() bool {
	_, ok := goalLabels[g]
	return ok
}

// Label returns the human-readable form of the goal.
func (g Goal) Label() string {
	if label, ok := goalLabels[g]; ok {
		return label
	}
	return string(g)
}

// ParseGoal converts a goal string into a Goal. It accepts both the canonical
// slug form ("thought-leadership") and the display form ("Thought Leadership")
// used by the database, case-insensitively.
func ParseGoal(s string) (Goal, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")

	g := Goal(normalized)
	if g.Valid() {
		return g, nil
	}
	return "", fmt.Errorf("unknown goal %q", s)
}
