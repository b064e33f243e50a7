package gate

import (
	"fmt"
	"strings"

	"github.com/draftforge/draftforge/content"
)

// ResearchGate evaluates research briefs against the goal's rule set.
type ResearchGate struct {
	rules map[content.Goal]ResearchRules
}

// NewResearchGate builds a research gate from validated configuration.
func NewResearchGate(cfg *Config) *ResearchGate {
	return &ResearchGate{rules: cfg.Research}
}

// Evaluate inspects a brief and returns PASS, or FAIL with every violated
// rule. The brief itself is never modified.
func (g *ResearchGate) Evaluate(brief *content.ResearchBrief, goal content.Goal) *Verdict {
	rules := g.rules[goal]
	var violations []Violation

	if len(brief.KeyInsights) < rules.MinInsights {
		violations = append(violations, Violation{
			Rule:     RuleTooFewInsights,
			Severity: 1,
			Message: fmt.Sprintf("brief has %d key insights, need at least %d specific, actionable insights",
				len(brief.KeyInsights), rules.MinInsights),
		})
	}

	if len(brief.Sources) < rules.MinSources {
		violations = append(violations, Violation{
			Rule:     RuleTooFewSources,
			Severity: 2,
			Message: fmt.Sprintf("brief cites %d sources, need at least %d high-quality sources with URLs",
				len(brief.Sources), rules.MinSources),
		})
	}

	for _, stat := range brief.Statistics {
		if stat.Source == "" {
			violations = append(violations, Violation{
				Rule:     RuleUnsourcedClaim,
				Severity: 3,
				Message:  fmt.Sprintf("statistic %q has no source URL; every statistic must name its source", stat.Claim),
			})
		}
	}

	if brief.RecommendedFocus == "" {
		violations = append(violations, Violation{
			Rule:     RuleMissingFocus,
			Severity: 4,
			Message:  "brief has no recommended focus; suggest the strongest angle in one or two sentences",
		})
	}

	rendered := brief.Render()
	violations = append(violations, checkSize(rendered, rules.Size, "brief")...)

	if len(violations) > 0 {
		return fail(violations)
	}
	return pass()
}

// checkSize applies a SizeRule to rendered text. Shared by both gates.
func checkSize(text string, rule SizeRule, label string) []Violation {
	var violations []Violation

	chars := len([]rune(text))
	if chars < rule.MinChars {
		violations = append(violations, Violation{
			Rule:     RuleBodyTooShort,
			Severity: 0,
			Message: fmt.Sprintf("%s is %d characters, need at least %d",
				label, chars, rule.MinChars),
		})
	} else if chars > rule.MaxChars {
		violations = append(violations, Violation{
			Rule:     RuleBodyTooLong,
			Severity: 0,
			Message: fmt.Sprintf("%s is %d characters, maximum is %d",
				label, chars, rule.MaxChars),
		})
	}

	breaks := strings.Count(text, "\n\n")
	if breaks < rule.MinBreaks {
		violations = append(violations, Violation{
			Rule:     RuleTooFewBreaks,
			Severity: 1,
			Message: fmt.Sprintf("%s has %d paragraph breaks, need at least %d for scannability",
				label, breaks, rule.MinBreaks),
		})
	}

	return violations
}
