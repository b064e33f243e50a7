package content

import (
	"fmt"
	"strings"
)

// Statistic is a sourced data point extracted during research.
type Statistic struct {
	Claim  string `json:"stat"`
	Source string `json:"source,omitempty"`
	Date   string `json:"date,omitempty"`
}

// Quote is an attributed quotation extracted during research.
type Quote struct {
	Text    string `json:"quote"`
	Author  string `json:"author,omitempty"`
	Source  string `json:"source,omitempty"`
	Context string `json:"context,omitempty"`
}

// ResearchBrief is the researcher's artifact: synthesized insights the
// writer builds the post from. Produced once per research attempt and
// never mutated afterwards.
type ResearchBrief struct {
	KeyInsights      []string    `json:"key_insights"`
	Statistics       []Statistic `json:"statistics,omitempty"`
	Quotes           []Quote     `json:"quotes,omitempty"`
	ContrarianAngles []string    `json:"contrarian_angles,omitempty"`
	PainPoints       []string    `json:"user_pain_points,omitempty"`
	RecommendedFocus string      `json:"recommended_focus"`
	Sources          []string    `json:"sources,omitempty"`
}

// Render produces the textual form of the brief that is handed to the
// writer prompt and measured by the research gate's size rules.
func (b *ResearchBrief) Render() string {
	var sb strings.Builder

	if len(b.KeyInsights) > 0 {
		sb.WriteString("Key insights:\n")
		for _, insight := range b.KeyInsights {
			fmt.Fprintf(&sb, "- %s\n", insight)
		}
		sb.WriteString("\n")
	}

	if len(b.Statistics) > 0 {
		sb.WriteString("Statistics:\n")
		for _, stat := range b.Statistics {
			fmt.Fprintf(&sb, "- %s", stat.Claim)
			if stat.Source != "" {
				fmt.Fprintf(&sb, " (%s", stat.Source)
				if stat.Date != "" {
					fmt.Fprintf(&sb, ", %s", stat.Date)
				}
				sb.WriteString(")")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(b.Quotes) > 0 {
		sb.WriteString("Quotes:\n")
		for _, q := range b.Quotes {
			fmt.Fprintf(&sb, "- %q", q.Text)
			if q.Author != "" {
				fmt.Fprintf(&sb, " — %s", q.Author)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(b.ContrarianAngles) > 0 {
		sb.WriteString("Contrarian angles:\n")
		for _, angle := range b.ContrarianAngles {
			fmt.Fprintf(&sb, "- %s\n", angle)
		}
		sb.WriteString("\n")
	}

	if len(b.PainPoints) > 0 {
		sb.WriteString("User pain points:\n")
		for _, p := range b.PainPoints {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
		sb.WriteString("\n")
	}

	if b.RecommendedFocus != "" {
		fmt.Fprintf(&sb, "Recommended focus: %s\n", b.RecommendedFocus)
	}

	return strings.TrimRight(sb.String(), "\n")
}
