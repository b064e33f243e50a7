// Package gate implements the deterministic quality gates that decide
// whether a stage artifact is accepted or sent back for revision. Gates
// are pure functions: identical artifact and goal always produce an
// identical verdict, and gates never mutate the artifact they inspect.
package gate

import (
	"fmt"
	"sort"
	"strings"
)

// Rule identifiers reported in verdicts. Stable across releases so
// downstream tooling can key off them.
const (
	RuleBodyTooShort      = "body-too-short"
	RuleBodyTooLong       = "body-too-long"
	RuleTooFewBreaks      = "too-few-breaks"
	RuleHookCount         = "hook-count"
	RuleHookDiversity     = "hook-diversity"
	RuleMissingCTA        = "missing-cta"
	RuleHashtagCount      = "hashtag-count"
	RuleJargon            = "corporate-jargon"
	RulePassiveVoice      = "passive-voice"
	RuleWallOfText        = "wall-of-text"
	RuleMissingStatistics = "missing-statistics"
	RuleTooFewInsights    = "too-few-insights"
	RuleTooFewSources     = "too-few-sources"
	RuleMissingFocus      = "missing-focus"
	RuleUnsourcedClaim    = "unsourced-claim"
)

// Violation is one failed rule with actionable feedback. Severity orders
// violations in the verdict: lower values are more actionable and come
// first.
type Violation struct {
	Rule     string `json:"rule"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
}

// Verdict is the result of evaluating one artifact against one goal's
// rule set.
type Verdict struct {
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations,omitempty"`
}

// pass returns an accepting verdict.
func pass() *Verdict {
	return &Verdict{Pass: true}
}

// fail returns a rejecting verdict with violations ordered most
// actionable first. Ordering is stable so verdicts are deterministic.
func fail(violations []Violation) *Verdict {
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Severity < violations[j].Severity
	})
	return &Verdict{Pass: false, Violations: violations}
}

// Rules returns the identifiers of all violated rules.
func (v *Verdict) Rules() []string {
	rules := make([]string, 0, len(v.Violations))
	for _, violation := range v.Violations {
		rules = append(rules, violation.Rule)
	}
	return rules
}

// Feedback formats every violation into one feedback string for the next
// attempt. All violations are included, not just the first, so a single
// revision can address everything at once.
func (v *Verdict) Feedback() string {
	if v.Pass || len(v.Violations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("The draft did not pass review. Fix all of the following:\n")
	for _, violation := range v.Violations {
		fmt.Fprintf(&sb, "- [%s] %s\n", violation.Rule, violation.Message)
	}
	return strings.TrimRight(sb.String(), "\n")
}
