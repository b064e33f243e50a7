package gate

import (
	"fmt"
	"strings"

	"github.com/draftforge/draftforge/content"
)

// WritingGate evaluates post drafts against the goal's rule set.
type WritingGate struct {
	rules map[content.Goal]WritingRules
}

// NewWritingGate builds a writing gate from validated configuration.
func NewWritingGate(cfg *Config) *WritingGate {
	return &WritingGate{rules: cfg.Writing}
}

// Evaluate inspects a draft and returns PASS, or FAIL carrying every
// violated rule ranked most actionable first. The draft is never modified.
func (g *WritingGate) Evaluate(draft *content.Draft, goal content.Goal) *Verdict {
	rules := g.rules[goal]
	var violations []Violation

	violations = append(violations, checkSize(draft.Body, rules.Size, "post body")...)
	violations = append(violations, checkHooks(draft.Hooks)...)

	if strings.TrimSpace(draft.CTA) == "" || len(draft.CTA) < 10 {
		violations = append(violations, Violation{
			Rule:     RuleMissingCTA,
			Severity: 2,
			Message:  "call-to-action is missing or too weak; it must match the post's goal",
		})
	}

	if n := len(draft.Hashtags); n < rules.MinHashtags || n > rules.MaxHashtags {
		violations = append(violations, Violation{
			Rule:     RuleHashtagCount,
			Severity: 3,
			Message: fmt.Sprintf("draft has %d hashtags, need between %d and %d",
				n, rules.MinHashtags, rules.MaxHashtags),
		})
	}

	if jargon := detectJargon(draft.Body); len(jargon) > 0 {
		violations = append(violations, Violation{
			Rule:     RuleJargon,
			Severity: 4,
			Message:  "remove corporate jargon: " + strings.Join(jargon, ", "),
		})
	}

	if passive := countPassiveVoice(draft.Body); passive > rules.MaxPassiveVoice {
		violations = append(violations, Violation{
			Rule:     RulePassiveVoice,
			Severity: 5,
			Message: fmt.Sprintf("%d passive-voice constructions (limit %d); rewrite in active voice",
				passive, rules.MaxPassiveVoice),
		})
	}

	if walls := countWallParagraphs(draft.Body); walls > 0 {
		violations = append(violations, Violation{
			Rule:     RuleWallOfText,
			Severity: 6,
			Message: fmt.Sprintf("%d paragraphs run longer than three sentences; break them up",
				walls),
		})
	}

	if rules.RequireStatistic && !hasStatistic(draft.Body) {
		violations = append(violations, Violation{
			Rule:     RuleMissingStatistics,
			Severity: 7,
			Message:  "post needs at least one concrete statistic to establish authority",
		})
	}

	if len(violations) > 0 {
		return fail(violations)
	}
	return pass()
}

// checkHooks enforces the hook count and the diversity requirement: each
// hook must match a distinct rhetorical pattern.
func checkHooks(hooks []string) []Violation {
	var violations []Violation

	if len(hooks) != content.HookCount {
		violations = append(violations, Violation{
			Rule:     RuleHookCount,
			Severity: 1,
			Message:  fmt.Sprintf("draft has %d hooks, need exactly %d", len(hooks), content.HookCount),
		})
		return violations
	}

	analysis := AnalyzeHooks(hooks)
	if analysis.Diverse() {
		return nil
	}

	var parts []string
	if missing := analysis.Missing(); len(missing) > 0 {
		parts = append(parts, "missing pattern categories: "+patternList(missing))
	}
	if duplicated := analysis.Duplicated(); len(duplicated) > 0 {
		parts = append(parts, "more than one hook matches: "+patternList(duplicated))
	}
	for _, idx := range analysis.Unmatched {
		parts = append(parts, fmt.Sprintf("hook %d matches no required pattern", idx+1))
	}

	violations = append(violations, Violation{
		Rule:     RuleHookDiversity,
		Severity: 1,
		Message: "each hook must use a distinct pattern (challenge-a-belief, open-question, first-person-narrative); " +
			strings.Join(parts, "; "),
	})
	return violations
}
