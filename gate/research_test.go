package gate

import (
	"strings"
	"testing"

	"github.com/draftforge/draftforge/content"
)

func solidBrief() *content.ResearchBrief {
	return &content.ResearchBrief{
		KeyInsights: []string{
			"Most enterprise agent pilots stall before production because nobody owns evaluation.",
			"Teams that invest in eval harnesses ship 3x faster according to recent surveys.",
			"The gap between demo and production is mostly tooling, not model quality.",
		},
		Statistics: []content.Statistic{
			{Claim: "12% of pilots reach production", Source: "https://example.com/agent-report", Date: "2026-02"},
		},
		ContrarianAngles: []string{"Model choice matters far less than the harness around it."},
		RecommendedFocus: "Lead with the evaluation-ownership gap; it is concrete and underdiscussed.",
		Sources: []string{
			"https://example.com/agent-report",
			"https://example.com/eval-survey",
		},
	}
}

func TestResearchGatePass(t *testing.T) {
	g := NewResearchGate(DefaultConfig())
	verdict := g.Evaluate(solidBrief(), content.GoalThoughtLeadership)
	if !verdict.Pass {
		t.Fatalf("solid brief should pass, got: %v", verdict.Rules())
	}
	if verdict.Feedback() != "" {
		t.Errorf("passing verdict should have empty feedback, got %q", verdict.Feedback())
	}
}

func TestResearchGateFailures(t *testing.T) {
	g := NewResearchGate(DefaultConfig())

	tests := []struct {
		name     string
		mutate   func(*content.ResearchBrief)
		wantRule string
	}{
		{
			name:     "too few insights",
			mutate:   func(b *content.ResearchBrief) { b.KeyInsights = b.KeyInsights[:1] },
			wantRule: RuleTooFewInsights,
		},
		{
			name:     "too few sources",
			mutate:   func(b *content.ResearchBrief) { b.Sources = nil },
			wantRule: RuleTooFewSources,
		},
		{
			name: "unsourced statistic",
			mutate: func(b *content.ResearchBrief) {
				b.Statistics = append(b.Statistics, content.Statistic{Claim: "90% of everything"})
			},
			wantRule: RuleUnsourcedClaim,
		},
		{
			name:     "no recommended focus",
			mutate:   func(b *content.ResearchBrief) { b.RecommendedFocus = "" },
			wantRule: RuleMissingFocus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brief := solidBrief()
			tt.mutate(brief)
			verdict := g.Evaluate(brief, content.GoalEducational)
			if verdict.Pass {
				t.Fatal("expected failure")
			}
			found := false
			for _, rule := range verdict.Rules() {
				if rule == tt.wantRule {
					found = true
				}
			}
			if !found {
				t.Errorf("violations %v missing %q", verdict.Rules(), tt.wantRule)
			}
		})
	}
}

func TestResearchGateFeedbackListsEverything(t *testing.T) {
	g := NewResearchGate(DefaultConfig())
	brief := &content.ResearchBrief{}

	verdict := g.Evaluate(brief, content.GoalProduct)
	if verdict.Pass {
		t.Fatal("empty brief should fail")
	}
	feedback := verdict.Feedback()
	// All violations appear, not just the first.
	for _, rule := range verdict.Rules() {
		if !strings.Contains(feedback, rule) {
			t.Errorf("feedback missing rule %q:\n%s", rule, feedback)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	t.Run("missing goal entry", func(t *testing.T) {
		cfg := DefaultConfig()
		delete(cfg.Writing, content.GoalInteractive)
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing goal entry")
		}
	})

	t.Run("inverted size bounds", func(t *testing.T) {
		cfg := DefaultConfig()
		rules := cfg.Writing[content.GoalProduct]
		rules.Size.MinChars = 2000
		rules.Size.MaxChars = 100
		cfg.Writing[content.GoalProduct] = rules
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for min > max")
		}
	})

	t.Run("unknown goal key", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Research["listicle"] = cfg.Research[content.GoalProduct]
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for unknown goal key")
		}
	})
}
