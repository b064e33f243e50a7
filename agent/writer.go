package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/draftforge/draftforge/content"
	"github.com/draftforge/draftforge/gate"
	"github.com/draftforge/draftforge/llm"
)

// writeTemperature allows creative variation in drafts.
var writeTemperature = 0.7

// writeMaxTokens bounds the generated draft.
const writeMaxTokens = 3000

// Writer turns a research brief into a post draft.
type Writer struct {
	completer llm.Completer
	sizes     map[content.Goal]sizeHint
	logger    *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterLogger sets the logger.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates a writing stage executor. The gate configuration
// supplies per-goal length targets so the prompt and the reviewer
// agree on what a passing draft looks like.
func NewWriter(completer llm.Completer, cfg *gate.Config, opts ...WriterOption) *Writer {
	sizes := make(map[content.Goal]sizeHint, len(cfg.Writing))
	for goal, rules := range cfg.Writing {
		sizes[goal] = sizeHint{
			MinChars:  rules.Size.MinChars,
			MaxChars:  rules.Size.MaxChars,
			MinBreaks: rules.Size.MinBreaks,
		}
	}

	w := &Writer{
		completer: completer,
		sizes:     sizes,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write executes one writing attempt. The request must carry the
// research brief produced upstream.
func (w *Writer) Write(ctx context.Context, req Request) (*content.Draft, error) {
	if err := req.validate(); err != nil {
		return nil, llm.NewFatalError(err)
	}
	if req.Brief == nil {
		return nil, llm.NewFatalError(fmt.Errorf("research brief is required"))
	}

	hint, ok := w.sizes[req.Goal]
	if !ok {
		return nil, llm.NewFatalError(fmt.Errorf("no length targets for goal %q", req.Goal))
	}

	resp, err := w.completer.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: WriterSystemPrompt()},
			{Role: "user", Content: buildWriteUserPrompt(req, hint)},
		},
		Temperature: &writeTemperature,
		MaxTokens:   writeMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	draft, err := parseDraft(resp.Content)
	if err != nil {
		return nil, llm.NewFatalError(fmt.Errorf("malformed draft response: %w", err))
	}

	w.logger.Info("draft generated",
		"topic", req.Topic,
		"characters", draft.CharacterCount(),
		"hooks", len(draft.Hooks),
		"tokens", resp.Usage.TotalTokens)

	return draft, nil
}

// parseDraft extracts and decodes the JSON draft from a model
// response.
func parseDraft(raw string) (*content.Draft, error) {
	extracted := llm.ExtractJSON(raw)
	if extracted == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var draft content.Draft
	if err := json.Unmarshal([]byte(extracted), &draft); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}

	if draft.Body == "" {
		return nil, fmt.Errorf("draft has no body")
	}

	return &draft, nil
}
