package engine

import (
	"fmt"
	"time"

	"github.com/draftforge/draftforge/content"
)

// TimeoutPolicy decides what happens when a stage invocation hits its
// time bound.
type TimeoutPolicy string

const (
	// TimeoutRetry counts a timed-out invocation against the stage's
	// retry budget and tries again.
	TimeoutRetry TimeoutPolicy = "retry"
	// TimeoutFatal ends the run immediately on a stage timeout.
	TimeoutFatal TimeoutPolicy = "fatal"
)

// Config bounds the orchestrator's work per run.
type Config struct {
	// MaxRetries is the per-stage quality-retry budget. A stage is
	// invoked at most MaxRetries[stage]+1 times.
	MaxRetries map[content.Stage]int `yaml:"max_retries"`

	// StageTimeout bounds each stage invocation. Zero disables the
	// bound.
	StageTimeout time.Duration `yaml:"stage_timeout"`

	// TimeoutPolicy selects how a stage timeout is handled.
	TimeoutPolicy TimeoutPolicy `yaml:"timeout_policy"`
}

// DefaultConfig returns the standard per-run bounds: two quality
// retries per stage and fatal timeouts.
func DefaultConfig() Config {
	return Config{
		MaxRetries: map[content.Stage]int{
			content.StageResearch: 2,
			content.StageWrite:    2,
		},
		StageTimeout:  5 * time.Minute,
		TimeoutPolicy: TimeoutFatal,
	}
}

// Validate rejects configurations that would break the termination
// bound or leave a stage without a budget.
func (c Config) Validate() error {
	for _, stage := range []content.Stage{content.StageResearch, content.StageWrite} {
		budget, ok := c.MaxRetries[stage]
		if !ok {
			return fmt.Errorf("max_retries missing entry for stage %q", stage)
		}
		if budget < 0 {
			return fmt.Errorf("max_retries[%s] must be >= 0, got %d", stage, budget)
		}
	}
	if c.StageTimeout < 0 {
		return fmt.Errorf("stage_timeout must be >= 0")
	}
	switch c.TimeoutPolicy {
	case TimeoutRetry, TimeoutFatal:
	default:
		return fmt.Errorf("timeout_policy must be %q or %q, got %q", TimeoutRetry, TimeoutFatal, c.TimeoutPolicy)
	}
	return nil
}
