package gate

import (
	"strings"
	"testing"

	"github.com/draftforge/draftforge/content"
)

// diverseHooks covers all three pattern categories.
func diverseHooks() []string {
	return []string{
		"Unpopular opinion: most AI pilots are demos wearing a production costume.",
		"What if your eval suite is the real product?",
		"I shipped an agent with no evals. It cost us our biggest customer.",
	}
}

// bodyOfLength builds a body of approximately n characters from short
// paragraphs that satisfy the style rules (no walls of text, no jargon,
// active voice) and contain one statistic.
func bodyOfLength(n int) string {
	var sb strings.Builder
	sb.WriteString("Only 12% of AI pilots reach production. The rest stall in demo purgatory.\n\n")
	paragraph := "Teams chase model quality. They skip the harness. The harness decides the outcome.\n\n"
	for sb.Len() < n {
		sb.WriteString(paragraph)
	}
	body := sb.String()
	if len(body) > n {
		cut := strings.LastIndex(body[:n], "\n\n")
		if cut > 0 {
			body = body[:cut+2]
		}
	}
	return strings.TrimRight(body, "\n")
}

func longFormConfig() *Config {
	cfg := DefaultConfig()
	rules := cfg.Writing[content.GoalThoughtLeadership]
	rules.Size = SizeRule{MinChars: 1000, MaxChars: 1500, MinBreaks: 4}
	cfg.Writing[content.GoalThoughtLeadership] = rules
	return cfg
}

func TestWritingGateSizeBounds(t *testing.T) {
	g := NewWritingGate(longFormConfig())

	draft := &content.Draft{
		Hooks:    diverseHooks(),
		Body:     bodyOfLength(400),
		CTA:      "What's your take? Disagree? Comment below.",
		Hashtags: []string{"#AI", "#AIAgents", "#ProductThinking"},
	}

	verdict := g.Evaluate(draft, content.GoalThoughtLeadership)
	if verdict.Pass {
		t.Fatal("400-char body should fail a [1000,1500] bound")
	}
	if rules := verdict.Rules(); rules[0] != RuleBodyTooShort {
		t.Errorf("first violation = %q, want %q (most actionable first)", rules[0], RuleBodyTooShort)
	}

	draft.Body = bodyOfLength(1200)
	verdict = g.Evaluate(draft, content.GoalThoughtLeadership)
	if !verdict.Pass {
		t.Fatalf("1200-char draft should pass, got violations: %v", verdict.Rules())
	}
}

func TestWritingGateBodyTooLong(t *testing.T) {
	g := NewWritingGate(longFormConfig())
	draft := &content.Draft{
		Hooks:    diverseHooks(),
		Body:     bodyOfLength(2200),
		CTA:      "What's your take? Disagree? Comment below.",
		Hashtags: []string{"#AI", "#AIAgents", "#ProductThinking"},
	}

	verdict := g.Evaluate(draft, content.GoalThoughtLeadership)
	if verdict.Pass {
		t.Fatal("over-length body should fail")
	}
	found := false
	for _, rule := range verdict.Rules() {
		if rule == RuleBodyTooLong {
			found = true
		}
	}
	if !found {
		t.Errorf("violations %v missing %q", verdict.Rules(), RuleBodyTooLong)
	}
}

func TestWritingGateHookDiversity(t *testing.T) {
	g := NewWritingGate(longFormConfig())

	// All three hooks are open questions.
	draft := &content.Draft{
		Hooks: []string{
			"Why do most AI pilots never ship?",
			"What if your users hate your favorite feature?",
			"How many dashboards does one team need?",
		},
		Body:     bodyOfLength(1200),
		CTA:      "What's your take? Disagree? Comment below.",
		Hashtags: []string{"#AI", "#AIAgents", "#ProductThinking"},
	}

	verdict := g.Evaluate(draft, content.GoalThoughtLeadership)
	if verdict.Pass {
		t.Fatal("duplicate hook patterns should fail")
	}

	var diversity *Violation
	for i := range verdict.Violations {
		if verdict.Violations[i].Rule == RuleHookDiversity {
			diversity = &verdict.Violations[i]
		}
	}
	if diversity == nil {
		t.Fatalf("violations %v missing %q", verdict.Rules(), RuleHookDiversity)
	}
	for _, want := range []string{string(PatternChallenge), string(PatternStory)} {
		if !strings.Contains(diversity.Message, want) {
			t.Errorf("diversity feedback should name missing category %q: %s", want, diversity.Message)
		}
	}

	// Simulated revision: one hook per category.
	draft.Hooks = diverseHooks()
	verdict = g.Evaluate(draft, content.GoalThoughtLeadership)
	if !verdict.Pass {
		t.Fatalf("revised hook set should pass, got: %v", verdict.Rules())
	}
}

func TestWritingGateStyleRules(t *testing.T) {
	g := NewWritingGate(DefaultConfig())

	draft := &content.Draft{
		Hooks: diverseHooks(),
		Body: "We need to leverage synergy to move the needle.\n\n" +
			"The report was drafted by the team. The plan was designed by consultants. The launch was delayed by reviews.\n\n" +
			"One sentence. Two sentences. Three sentences. Four sentences. Five sentences here.\n\n" +
			strings.Repeat("Short active sentence with 42% uplift.\n\n", 12),
		CTA:      "Which tip will you try first? Let me know below.",
		Hashtags: []string{"#Marketing", "#GrowthHacking", "#MarketingTips"},
	}

	verdict := g.Evaluate(draft, content.GoalEducational)
	if verdict.Pass {
		t.Fatal("draft riddled with style violations should fail")
	}

	got := map[string]bool{}
	for _, rule := range verdict.Rules() {
		got[rule] = true
	}
	for _, want := range []string{RuleJargon, RulePassiveVoice, RuleWallOfText} {
		if !got[want] {
			t.Errorf("violations %v missing %q", verdict.Rules(), want)
		}
	}
}

func TestWritingGateHashtagAndCTA(t *testing.T) {
	g := NewWritingGate(DefaultConfig())

	draft := &content.Draft{
		Hooks:    diverseHooks(),
		Body:     bodyOfLength(600),
		CTA:      "Vote!",
		Hashtags: []string{"#One"},
	}

	verdict := g.Evaluate(draft, content.GoalEducational)
	if verdict.Pass {
		t.Fatal("weak CTA and too few hashtags should fail")
	}
	got := map[string]bool{}
	for _, rule := range verdict.Rules() {
		got[rule] = true
	}
	if !got[RuleMissingCTA] || !got[RuleHashtagCount] {
		t.Errorf("violations %v should include CTA and hashtag rules", verdict.Rules())
	}
}

func TestWritingGateIdempotent(t *testing.T) {
	g := NewWritingGate(DefaultConfig())
	draft := &content.Draft{
		Hooks:    diverseHooks(),
		Body:     bodyOfLength(700),
		CTA:      "What's your take? Disagree? Comment below.",
		Hashtags: []string{"#AI", "#AIAgents", "#ProductThinking", "#PLG"},
	}

	first := g.Evaluate(draft, content.GoalProduct)
	for i := 0; i < 5; i++ {
		next := g.Evaluate(draft, content.GoalProduct)
		if next.Pass != first.Pass || len(next.Violations) != len(first.Violations) {
			t.Fatal("verdict changed across identical evaluations")
		}
		for i := range next.Violations {
			if next.Violations[i] != first.Violations[i] {
				t.Fatalf("violation %d changed: %+v vs %+v", i, first.Violations[i], next.Violations[i])
			}
		}
	}
}
