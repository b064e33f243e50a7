package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/llm"
	"github.com/draftforge/draftforge/search"
)

// researchTemperature keeps synthesis factual and close to sources.
var researchTemperature = 0.3

// researchMaxTokens bounds the synthesized brief.
const researchMaxTokens = 2000

// defaultSearchResults is how many hits one research query requests.
const defaultSearchResults = 5

// PageReader pulls the full readable article behind a search hit.
type PageReader interface {
	Read(ctx context.Context, pageURL string) (*search.Page, error)
}

// Researcher gathers source material and synthesizes it into a
// structured research brief.
type Researcher struct {
	completer  llm.Completer
	searcher   search.Searcher
	reader     PageReader
	maxResults int
	logger     *slog.Logger
}

// ResearcherOption configures a Researcher.
type ResearcherOption func(*Researcher)

// WithResearcherLogger sets the logger.
func WithResearcherLogger(logger *slog.Logger) ResearcherOption {
	return func(r *Researcher) {
		r.logger = logger
	}
}

// WithMaxSearchResults sets how many search hits feed synthesis.
func WithMaxSearchResults(n int) ResearcherOption {
	return func(r *Researcher) {
		r.maxResults = n
	}
}

// WithPageReader enables a deep read of the top search hit. Without a
// reader, synthesis works from result snippets alone.
func WithPageReader(reader PageReader) ResearcherOption {
	return func(r *Researcher) {
		r.reader = reader
	}
}

// NewResearcher creates a research stage executor.
func NewResearcher(completer llm.Completer, searcher search.Searcher, opts ...ResearcherOption) *Researcher {
	r := &Researcher{
		completer:  completer,
		searcher:   searcher,
		maxResults: defaultSearchResults,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Research executes one research attempt: search, then synthesize the
// hits into a brief. The search call may legitimately return nothing;
// synthesis then relies on the model's own knowledge.
func (r *Researcher) Research(ctx context.Context, req Request) (*content.ResearchBrief, error) {
	if err := req.validate(); err != nil {
		return nil, llm.NewFatalError(err)
	}

	query := fmt.Sprintf("%s %s %d", req.Topic, req.Goal.Label(), time.Now().Year())
	results, err := r.searcher.Search(ctx, query, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	r.logger.Info("search complete",
		"topic", req.Topic,
		"results", len(results))

	page := r.readTopHit(ctx, results)

	resp, err := r.completer.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: ResearcherSystemPrompt()},
			{Role: "user", Content: buildResearchUserPrompt(req, results, page)},
		},
		Temperature: &researchTemperature,
		MaxTokens:   researchMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize research: %w", err)
	}

	brief, err := parseBrief(resp.Content)
	if err != nil {
		return nil, llm.NewFatalError(fmt.Errorf("malformed research response: %w", err))
	}

	// Sources may arrive only inside statistics; surface them so the
	// review gates can count them.
	if len(brief.Sources) == 0 {
		for _, stat := range brief.Statistics {
			if stat.Source != "" {
				brief.Sources = append(brief.Sources, stat.Source)
			}
		}
	}

	r.logger.Info("research synthesized",
		"topic", req.Topic,
		"insights", len(brief.KeyInsights),
		"statistics", len(brief.Statistics),
		"tokens", resp.Usage.TotalTokens)

	return brief, nil
}

// readTopHit pulls the full article behind the top search result.
// Failures here never fail the research attempt; the snippet still
// feeds synthesis.
func (r *Researcher) readTopHit(ctx context.Context, results []search.Result) *search.Page {
	if r.reader == nil || len(results) == 0 {
		return nil
	}

	page, err := r.reader.Read(ctx, results[0].URL)
	if err != nil {
		r.logger.Warn("top source read failed",
			"url", results[0].URL,
			"error", err)
		return nil
	}
	return page
}

// parseBrief extracts and decodes the JSON research brief from a model
// response.
func parseBrief(raw string) (*content.ResearchBrief, error) {
	extracted := llm.ExtractJSON(raw)
	if extracted == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var brief content.ResearchBrief
	if err := json.Unmarshal([]byte(extracted), &brief); err != nil {
		return nil, fmt.Errorf("decode brief: %w", err)
	}

	if len(brief.KeyInsights) == 0 {
		return nil, fmt.Errorf("brief has no key insights")
	}

	return &brief, nil
}
