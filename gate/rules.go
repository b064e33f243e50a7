package gate

import (
	"fmt"

	"github.com/draftforge/draftforge/content"
)

// SizeRule bounds the rendered body text of an artifact. The character
// bound is a closed interval [MinChars, MaxChars]; MinBreaks is the
// minimum number of blank-line paragraph breaks for scannability.
type SizeRule struct {
	MinChars  int `yaml:"min_chars"`
	MaxChars  int `yaml:"max_chars"`
	MinBreaks int `yaml:"min_breaks"`
}

func (r SizeRule) validate(scope string) error {
	if r.MinChars < 0 || r.MaxChars <= 0 {
		return fmt.Errorf("%s: character bounds must be positive", scope)
	}
	if r.MinChars > r.MaxChars {
		return fmt.Errorf("%s: min_chars %d exceeds max_chars %d", scope, r.MinChars, r.MaxChars)
	}
	if r.MinBreaks < 0 {
		return fmt.Errorf("%s: min_breaks must not be negative", scope)
	}
	return nil
}

// ResearchRules is the research gate's rule set for one goal.
type ResearchRules struct {
	Size        SizeRule `yaml:"size"`
	MinInsights int      `yaml:"min_insights"`
	MinSources  int      `yaml:"min_sources"`
}

// WritingRules is the writing gate's rule set for one goal.
type WritingRules struct {
	Size             SizeRule `yaml:"size"`
	MinHashtags      int      `yaml:"min_hashtags"`
	MaxHashtags      int      `yaml:"max_hashtags"`
	MaxPassiveVoice  int      `yaml:"max_passive_voice"`
	RequireStatistic bool     `yaml:"require_statistic"`
}

// Config holds the complete goal-keyed rule tables for both gates.
// Thresholds live here, not in gate logic; the gates only apply them.
type Config struct {
	Research map[content.Goal]ResearchRules `yaml:"research"`
	Writing  map[content.Goal]WritingRules  `yaml:"writing"`
}

// DefaultConfig returns the built-in rule tables. Writing bounds follow
// platform guidance per content category: authority posts need material
// length, interactive prompts stay short.
func DefaultConfig() *Config {
	research := SizeRule{MinChars: 300, MaxChars: 6000, MinBreaks: 2}

	cfg := &Config{
		Research: map[content.Goal]ResearchRules{},
		Writing: map[content.Goal]WritingRules{
			content.GoalThoughtLeadership: {
				Size:             SizeRule{MinChars: 800, MaxChars: 1500, MinBreaks: 4},
				RequireStatistic: true,
			},
			content.GoalProduct: {
				Size: SizeRule{MinChars: 500, MaxChars: 1300, MinBreaks: 3},
			},
			content.GoalEducational: {
				Size: SizeRule{MinChars: 400, MaxChars: 1200, MinBreaks: 3},
			},
			content.GoalPersonalBrand: {
				Size: SizeRule{MinChars: 400, MaxChars: 1000, MinBreaks: 4},
			},
			content.GoalInteractive: {
				Size: SizeRule{MinChars: 200, MaxChars: 600, MinBreaks: 2},
			},
			content.GoalInspirational: {
				Size: SizeRule{MinChars: 400, MaxChars: 1000, MinBreaks: 4},
			},
		},
	}

	for _, goal := range content.AllGoals() {
		cfg.Research[goal] = ResearchRules{Size: research, MinInsights: 3, MinSources: 2}
	}
	for goal, rules := range cfg.Writing {
		rules.MinHashtags = 3
		rules.MaxHashtags = 5
		rules.MaxPassiveVoice = 2
		cfg.Writing[goal] = rules
	}

	return cfg
}

// Validate checks that every enumerated goal has a complete entry in both
// tables. A missing entry is a startup failure, never a runtime surprise.
func (c *Config) Validate() error {
	for _, goal := range content.AllGoals() {
		research, ok := c.Research[goal]
		if !ok {
			return fmt.Errorf("gate config: no research rules for goal %q", goal)
		}
		if err := research.Size.validate(fmt.Sprintf("research rules for %q", goal)); err != nil {
			return err
		}
		if research.MinInsights <= 0 {
			return fmt.Errorf("research rules for %q: min_insights must be positive", goal)
		}

		writing, ok := c.Writing[goal]
		if !ok {
			return fmt.Errorf("gate config: no writing rules for goal %q", goal)
		}
		if err := writing.Size.validate(fmt.Sprintf("writing rules for %q", goal)); err != nil {
			return err
		}
		if writing.MinHashtags < 0 || writing.MaxHashtags < writing.MinHashtags {
			return fmt.Errorf("writing rules for %q: invalid hashtag bounds", goal)
		}
	}

	for goal := range c.Research {
		if !goal.Valid() {
			return fmt.Errorf("gate config: research rules for unknown goal %q", goal)
		}
	}
	for goal := range c.Writing {
		if !goal.Valid() {
			return fmt.Errorf("gate config: writing rules for unknown goal %q", goal)
		}
	}

	return nil
}
