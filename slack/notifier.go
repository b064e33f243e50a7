// Package slack posts run outcome notifications to a Slack incoming
// webhook. Notifications are best effort: a delivery failure is logged
// and never fails the run that triggered it.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/draftforge/draftforge/content"
)

// Notifier sends Block Kit messages to one webhook URL. A Notifier
// with an empty webhook URL silently drops every notification.
type Notifier struct {
	webhookURL string
	pageLink   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// WithPageLinkBase sets the base URL used to build "review" buttons
// from work item IDs.
func WithPageLinkBase(base string) Option {
	return func(n *Notifier) {
		n.pageLink = base
	}
}

// NewNotifier creates a webhook notifier.
func NewNotifier(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		pageLink:   "https://notion.so/",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type message struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks,omitempty"`
}

type block struct {
	Type     string    `json:"type"`
	Text     *text     `json:"text,omitempty"`
	Elements []element `json:"elements,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type element struct {
	Type string `json:"type"`
	Text *text  `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Notify reports a terminal run. Completed runs get a draft summary
// with a review button; failed runs get a short error message.
func (n *Notifier) Notify(ctx context.Context, run *content.RunState) {
	if n.webhookURL == "" {
		n.logger.Debug("slack webhook not configured, skipping notification")
		return
	}

	var msg message
	if run.Status == content.StatusCompleted {
		msg = n.draftMessage(run)
	} else {
		msg = n.failureMessage(run)
	}

	if err := n.post(ctx, msg); err != nil {
		// Best effort only.
		n.logger.Warn("slack notification failed", "run_id", run.RunID, "error", err)
		return
	}
	n.logger.Info("slack notification sent", "run_id", run.RunID, "status", run.Status)
}

func (n *Notifier) draftMessage(run *content.RunState) message {
	item := run.Item
	draft := run.Draft

	var hookPreview strings.Builder
	for i, hook := range draft.Hooks {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&hookPreview, "%d. %s\n", i+1, truncate(hook, 100))
	}

	blocks := []block{
		{
			Type: "header",
			Text: &text{Type: "plain_text", Text: "New Draft Ready"},
		},
		{
			Type: "section",
			Text: &text{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Topic:* %s\n*Goal:* %s", item.Topic, item.Goal.Label()),
			},
		},
		{
			Type: "section",
			Text: &text{
				Type: "mrkdwn",
				Text: "*Hook Options:*\n" + hookPreview.String(),
			},
		},
		{
			Type: "section",
			Text: &text{
				Type: "mrkdwn",
				Text: "*Draft Preview:*\n" + truncate(draft.Body, 200),
			},
		},
		{
			Type: "actions",
			Elements: []element{
				{
					Type: "button",
					Text: &text{Type: "plain_text", Text: "Review"},
					URL:  n.pageLink + strings.ReplaceAll(item.ID, "-", ""),
				},
			},
		},
	}

	return message{
		Text:   "New draft ready: " + item.Topic,
		Blocks: blocks,
	}
}

func (n *Notifier) failureMessage(run *content.RunState) message {
	return message{
		Text: fmt.Sprintf("Draft generation failed for: %s", run.Item.Topic),
		Blocks: []block{
			{
				Type: "section",
				Text: &text{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*Run Failed*\n\n*Topic:* %s\n*Status:* %s\n*Reason:* %s",
						run.Item.Topic, run.Status, run.FailReason),
				},
			},
		},
	}
}

func (n *Notifier) post(ctx context.Context, msg message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
