package gate

import (
	"regexp"
	"strings"
)

// HookPattern is one of the three rhetorical pattern categories every
// draft's hook set must cover.
type HookPattern string

const (
	PatternChallenge HookPattern = "challenge-a-belief"
	PatternQuestion  HookPattern = "open-question"
	PatternStory     HookPattern = "first-person-narrative"
)

// AllPatterns returns the required pattern categories in a stable order.
func AllPatterns() []HookPattern {
	return []HookPattern{PatternChallenge, PatternQuestion, PatternStory}
}

// Pattern detection is rule-based on purpose: a classifier would be
// better at fuzzy phrasing but could not guarantee the identical-verdict
// property the gates promise.
var (
	challengeRe = regexp.MustCompile(`(?i)^(unpopular opinion|hot take|controversial take|stop )` +
		`|\beveryone (is|gets|has) .{0,40}\bwrong\b` +
		`|\bis a myth\b|\bis dead\b|\byou don't need\b|\bnobody wants to admit\b`)

	questionStartRe = regexp.MustCompile(`(?i)^(what|why|how|when|where|who|which|would|should|could|do|does|did|is|are|can|have|has|ever wonder)\b`)

	storyRe = regexp.MustCompile(`(?i)^(i|i'm|i've|i'd|my|we|last (year|month|week)|\d+ (years|months|weeks) ago)\b`)
)

// ClassifyHook assigns a hook to a pattern category, or "" if it matches
// none. Categories are tested in a fixed order (challenge, question,
// story) so a hook that could plausibly match two always classifies the
// same way.
func ClassifyHook(hook string) HookPattern {
	hook = strings.TrimSpace(hook)
	if hook == "" {
		return ""
	}

	if challengeRe.MatchString(hook) {
		return PatternChallenge
	}
	if strings.Contains(hook, "?") && questionStartRe.MatchString(hook) {
		return PatternQuestion
	}
	if storyRe.MatchString(hook) {
		return PatternStory
	}
	return ""
}

// HookAnalysis is the result of classifying a draft's hook set.
type HookAnalysis struct {
	// Assigned maps each pattern to the indices of hooks that matched it.
	Assigned map[HookPattern][]int
	// Unmatched holds indices of hooks that matched no pattern.
	Unmatched []int
}

// AnalyzeHooks classifies every hook in the set.
func AnalyzeHooks(hooks []string) HookAnalysis {
	analysis := HookAnalysis{Assigned: make(map[HookPattern][]int)}
	for i, hook := range hooks {
		pattern := ClassifyHook(hook)
		if pattern == "" {
			analysis.Unmatched = append(analysis.Unmatched, i)
			continue
		}
		analysis.Assigned[pattern] = append(analysis.Assigned[pattern], i)
	}
	return analysis
}

// Missing returns the pattern categories no hook matched.
func (a HookAnalysis) Missing() []HookPattern {
	var missing []HookPattern
	for _, pattern := range AllPatterns() {
		if len(a.Assigned[pattern]) == 0 {
			missing = append(missing, pattern)
		}
	}
	return missing
}

// Duplicated returns the pattern categories matched by more than one hook.
func (a HookAnalysis) Duplicated() []HookPattern {
	var duplicated []HookPattern
	for _, pattern := range AllPatterns() {
		if len(a.Assigned[pattern]) > 1 {
			duplicated = append(duplicated, pattern)
		}
	}
	return duplicated
}

// Diverse reports whether every hook matched a distinct required pattern.
func (a HookAnalysis) Diverse() bool {
	if len(a.Unmatched) > 0 {
		return false
	}
	for _, pattern := range AllPatterns() {
		if len(a.Assigned[pattern]) != 1 {
			return false
		}
	}
	return true
}

func patternList(patterns []HookPattern) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}
