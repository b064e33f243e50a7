// Package notion reads work items from and writes finished drafts back
// to a Notion database. It is the pipeline's work-item source and
// artifact sink.
package notion

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

// apiVersion is the Notion API version header value.
const apiVersion = "2022-06-28"

// defaultBaseURL is the Notion REST API root.
const defaultBaseURL = "https://api.notion.com"

// richTextLimit is Notion's per-field rich text length cap.
const richTextLimit = 2000

// maxBodySize limits API response bodies.
const maxBodySize = 8 * 1024 * 1024 // 8MB

// Page status values for the content pipeline.
const (
	StatusIdea        = "Idea"
	StatusResearching = "Researching"
	StatusDrafting    = "Drafting"
	StatusReady       = "Ready"
)

// Client talks to one Notion database.
type Client struct {
	token      string
	databaseID string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Notion client for one database.
func NewClient(token, databaseID string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("notion token is required")
	}
	if databaseID == "" {
		return nil, fmt.Errorf("notion database ID is required")
	}

	c := &Client{
		token:      token,
		databaseID: databaseID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// queryRequest is the database query payload.
type queryRequest struct {
	Filter json.RawMessage `json:"filter,omitempty"`
	Sorts  []querySort     `json:"sorts,omitempty"`
}

type querySort struct {
	Timestamp string `json:"timestamp"`
	Direction string `json:"direction"`
}

// queryResponse is the subset of the query result we consume.
type queryResponse struct {
	Results []page `json:"results"`
}

type page struct {
	ID          string              `json:"id"`
	CreatedTime time.Time           `json:"created_time"`
	Properties  map[string]property `json:"properties"`
}

type property struct {
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	Select   *selectVal `json:"select,omitempty"`
}

type richText struct {
	PlainText string `json:"plain_text,omitempty"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text,omitempty"`
}

type selectVal struct {
	Name string `json:"name"`
}

// FetchPending returns work items whose status is still "Idea",
// oldest first. A non-zero since narrows the query to pages created
// after that instant.
func (c *Client) FetchPending(ctx context.Context, since time.Time) ([]content.WorkItem, error) {
	statusFilter := map[string]any{
		"property": "Status",
		"status":   map[string]any{"equals": StatusIdea},
	}

	var filter any = statusFilter
	if !since.IsZero() {
		filter = map[string]any{
			"and": []any{
				statusFilter,
				map[string]any{
					"timestamp": "created_time",
					"created_time": map[string]any{
						"after": since.UTC().Format(time.RFC3339),
					},
				},
			},
		}
	}

	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}

	var resp queryResponse
	err = c.do(ctx, http.MethodPost,
		fmt.Sprintf("/v1/databases/%s/query", c.databaseID),
		queryRequest{
			Filter: filterJSON,
			Sorts:  []querySort{{Timestamp: "created_time", Direction: "ascending"}},
		}, &resp)
	if err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}

	items := make([]content.WorkItem, 0, len(resp.Results))
	for _, p := range resp.Results {
		item, err := c.toWorkItem(p)
		if err != nil {
			c.logger.Warn("skipping unparseable page", "page_id", p.ID, "error", err)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// toWorkItem maps a Notion page onto a work item.
func (c *Client) toWorkItem(p page) (content.WorkItem, error) {
	topic := plainText(p.Properties["Name"].Title)
	if topic == "" {
		return content.WorkItem{}, fmt.Errorf("page has no title")
	}

	goalName := ""
	if sel := p.Properties["Goal"].Select; sel != nil {
		goalName = sel.Name
	}
	goal, err := content.ParseGoal(goalName)
	if err != nil {
		return content.WorkItem{}, err
	}

	return content.WorkItem{
		ID:        p.ID,
		Topic:     topic,
		Goal:      goal,
		Context:   plainText(p.Properties["Context/Notes"].RichText),
		CreatedAt: p.CreatedTime,
	}, nil
}

func plainText(parts []richText) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[0].PlainText
}

// MarkStatus sets the pipeline status of one page.
func (c *Client) MarkStatus(ctx context.Context, itemID, status string) error {
	payload := map[string]any{
		"properties": map[string]any{
			"Status": map[string]any{
				"status": map[string]any{"name": status},
			},
		},
	}
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+itemID, payload, nil); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	c.logger.Info("status updated", "page_id", itemID, "status", status)
	return nil
}

// Commit writes a terminal run back to its page. A completed run
// publishes the brief and draft and moves the page to "Ready"; a
// failed run resets the page to "Idea" so it can be retried later.
func (c *Client) Commit(ctx context.Context, run *content.RunState) error {
	if !run.Terminal() {
		return fmt.Errorf("run %s is not terminal", run.RunID)
	}

	if run.Status != content.StatusCompleted {
		return c.MarkStatus(ctx, run.Item.ID, StatusIdea)
	}

	props := map[string]any{
		"Status": map[string]any{
			"status": map[string]any{"name": StatusReady},
		},
	}
	if run.Brief != nil {
		props["Research Brief"] = richTextProp(run.Brief.Render())
	}

	draft := run.Draft
	for i, hook := range draft.Hooks {
		if i >= content.HookCount {
			break
		}
		props[fmt.Sprintf("Hook Option %d", i+1)] = richTextProp(hook)
	}
	props["Draft Body"] = richTextProp(draft.Body)
	props["CTA"] = richTextProp(draft.CTA)
	props["Hashtags"] = richTextProp(strings.Join(draft.Hashtags, " "))
	props["Read Time"] = richTextProp(draft.EstimatedReadTime())
	if draft.Visual.Suggestion != "" {
		props["Image Suggestion"] = richTextProp(draft.Visual.Suggestion)
	}
	if draft.Visual.Format != "" {
		props["Format Type"] = map[string]any{
			"select": map[string]any{"name": draft.Visual.Format},
		}
	}

	payload := map[string]any{"properties": props}
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+run.Item.ID, payload, nil); err != nil {
		return fmt.Errorf("commit draft: %w", err)
	}

	c.logger.Info("draft committed", "page_id", run.Item.ID, "run_id", run.RunID)
	return nil
}

// richTextProp builds a rich text property value, truncated to
// Notion's field limit.
func richTextProp(text string) map[string]any {
	if len(text) > richTextLimit {
		text = text[:richTextLimit]
	}
	return map[string]any{
		"rich_text": []any{
			map[string]any{
				"text": map[string]any{"content": text},
			},
		},
	}
}

// do executes one API call and decodes the response into out when
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		return fmt.Errorf("notion API error (status %d): %s", resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
