package agent

import (
	"fmt"
	"strings"

	"github.com/draftforge/draftforge/search"
)

// ResearcherSystemPrompt returns the system prompt for the research
// synthesis role.
func ResearcherSystemPrompt() string {
	return `You are a research assistant gathering high-quality material for professional social posts.

## Research Logic by Goal Type

**Thought Leadership**: Establish authority through contrarian or data-backed insights
- Find recent controversies or debates
- Prefer academic papers and industry reports
- Extract surprising statistics, prioritizing the last 6 months
- Look for "everyone is wrong about X" angles

**Product**: Highlight pain points a product solves
- Search for competitor feature gaps and user complaints
- Find pain points from review sites
- Identify trending feature requests

**Educational**: Teach something actionable in 90 seconds
- Find authoritative step-by-step guides
- Identify common mistakes or misconceptions
- Look for case studies and real-world examples

**Personal Brand**: Build relatability through authentic experience
- Find relatable stories or anecdotes
- Look for "lessons learned" or "what I wish I knew" material

**Interactive**: Spark debate or engagement
- Find polarizing questions or debates
- Identify common dilemmas (X vs Y)

**Inspirational**: Motivate through success stories
- Find underdog success stories
- Search for quotes from respected figures

## Source Quality

Prefer academic papers, industry reports, government data, and direct
user feedback. Reputable news outlets and industry blogs are acceptable.
Avoid content farms, unverified claims, and data older than 2 years.

## Output Requirements

Return structured research as JSON:
{
  "key_insights": ["3-5 specific, actionable insights with stats/sources"],
  "statistics": [{"stat": "X% of Y do Z", "source": "URL", "date": "YYYY-MM"}],
  "quotes": [{"quote": "...", "author": "Name & Title", "source": "URL", "context": "Why this matters"}],
  "contrarian_angles": ["Angles that challenge conventional wisdom, backed by data"],
  "user_pain_points": ["Specific pain points (Product goal only)"],
  "recommended_focus": "1-2 sentence suggestion on the strongest angle",
  "sources": ["URLs of the sources the insights draw on"]
}

## Quality Standards
- At least 2 high-quality sources
- All statistics MUST include source URLs and dates
- Insights must be specific, never generic
- Contrarian angles must be backed by data, not just opinion
- Never invent statistics`
}

// WriterSystemPrompt returns the system prompt for the post writing
// role.
func WriterSystemPrompt() string {
	return `You are an expert social media ghostwriter for a professional audience. Create high-performing posts that follow strict platform rules.

## Core Constraints (MUST FOLLOW)

**Platform Rules:**
- No external links in the post body
- Hashtags: 3-5 relevant tags (mix broad and niche)
- Respect the character range you are given

**Structure Requirements:**
- Short paragraphs: maximum 2 sentences each
- Frequent paragraph breaks for mobile readability (use \n\n)
- Bullet points for lists (3-5 items max)
- No walls of text

**Writing Style:**
- Voice: second person ("you"), not first person plural ("we")
- Active voice only
- Mix short punchy sentences with longer explanations
- NO emoji
- NO corporate jargon: avoid "synergy", "leverage", "circle back", "alignment"
- NO humblebrag: never "I'm humbled" or "grateful to announce"

## Hook Formulas (Generate 3 Different Types)

You MUST generate exactly 3 hooks, one per formula:

**1. Controversial Hook:**
"Unpopular opinion: [bold claim that challenges consensus]"

**2. Question Hook:**
"What if [provocative hypothetical]?" OR "Why do [common behavior]?"
The hook must end with a question mark.

**3. Story Hook:**
"I [made a mistake/discovered something] that [surprising outcome]."

## CTA by Goal

- **Thought Leadership**: "What's your take? Disagree? Comment below."
- **Product**: "Link in comments for the full framework."
- **Educational**: "Which tip will you try first? Let me know below."
- **Interactive**: "Answer in comments: A or B?"
- **Personal Brand**: "Has this happened to you? Drop your story below."
- **Inspirational**: "Tag someone who needs to hear this today."

## Visual Asset by Goal

- **Thought Leadership / Educational**: carousel with a slide outline
- **Product**: short demo video script or annotated screenshot
- **Personal Brand**: candid photo suggestion
- **Interactive**: native poll with 4 options, or text-only
- **Inspirational**: quote card

## Output Format (JSON)

Return ONLY valid JSON in this exact structure:

{
  "hooks": ["Controversial hook", "Question hook", "Story hook"],
  "post_body": "Full post without hook. Use \n\n between paragraphs.",
  "cta": "Call to action matching the goal",
  "hashtags": ["#tag1", "#tag2", "#tag3"],
  "visual_asset": {
    "format": "carousel|video|photo|poll|text-only",
    "suggestion": "What visual to create",
    "carousel_outline": ["Slide 1 title", "Slide 2 title"],
    "poll_options": ["Option 1", "Option 2", "Option 3", "Option 4"]
  }
}

## Quality Checklist

- All 3 hooks use different formulas
- Statistics come from the research brief, never invented
- CTA matches the goal
- Paragraph breaks every 2-3 sentences
- 3-5 relevant hashtags
- Active voice throughout`
}

// topArticleLimit caps how much of the top source's article feeds the
// research prompt.
const topArticleLimit = 2000

// buildResearchUserPrompt assembles the user message for research
// synthesis.
func buildResearchUserPrompt(req Request, results []search.Result, page *search.Page) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Goal: %s\n", req.Goal.Label())
	if req.Context != "" {
		fmt.Fprintf(&sb, "Context: %s\n", req.Context)
	}

	sb.WriteString("\nSearch Results:\n")
	if len(results) == 0 {
		sb.WriteString("(no search results available; rely on well-established knowledge and mark sources accordingly)\n")
	}
	for _, r := range results {
		fmt.Fprintf(&sb, "- %s\n  %s\n", r.Title, r.URL)
		snippet := r.Snippet
		if len(snippet) > 300 {
			snippet = snippet[:300] + "..."
		}
		if snippet != "" {
			fmt.Fprintf(&sb, "  %s\n", snippet)
		}
		if r.PublishedDate != "" {
			fmt.Fprintf(&sb, "  Published: %s\n", r.PublishedDate)
		}
	}

	if page != nil {
		article := page.Markdown
		if len(article) > topArticleLimit {
			article = article[:topArticleLimit] + "..."
		}
		fmt.Fprintf(&sb, "\nTop Source Article (%s):\n%s\n", page.Title, article)
	}

	fmt.Fprintf(&sb, "\nAnalyze these results and produce a structured research brief in the JSON format. Follow the research logic for the %q goal type. Include URLs and dates for every statistic.", req.Goal.Label())

	sb.WriteString(feedbackSection(req.Feedback))

	return sb.String()
}

// briefContextLimit caps the rendered brief passed to the writer so
// prompt size stays bounded.
const briefContextLimit = 4000

// buildWriteUserPrompt assembles the user message for post writing.
func buildWriteUserPrompt(req Request, rules sizeHint) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Goal: %s\n", req.Goal.Label())
	if req.Context != "" {
		fmt.Fprintf(&sb, "Context: %s\n", req.Context)
	}
	fmt.Fprintf(&sb, "Target length: %d-%d characters with at least %d paragraph breaks.\n", rules.MinChars, rules.MaxChars, rules.MinBreaks)

	sb.WriteString("\nResearch Brief:\n")
	brief := req.Brief.Render()
	if len(brief) > briefContextLimit {
		brief = brief[:briefContextLimit]
	}
	sb.WriteString(brief)

	fmt.Fprintf(&sb, "\n\nGenerate a compelling post following all guidelines. Use the %q goal type for CTA and visual asset selection. Return only valid JSON.", req.Goal.Label())

	sb.WriteString(feedbackSection(req.Feedback))

	return sb.String()
}

// sizeHint carries the length targets surfaced to the writer prompt.
type sizeHint struct {
	MinChars  int
	MaxChars  int
	MinBreaks int
}
