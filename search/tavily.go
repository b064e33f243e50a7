package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/draftforge/draftforge/llm"
)

// defaultTavilyURL is the Tavily search API endpoint.
const defaultTavilyURL = "https://api.tavily.com/search"

// maxSearchResponseSize limits search API response bodies.
const maxSearchResponseSize = 4 * 1024 * 1024 // 4MB

// TavilyClient implements Searcher against the Tavily search API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	depth      string
	httpClient *http.Client
}

// TavilyOption configures a TavilyClient.
type TavilyOption func(*TavilyClient)

// WithTavilyURL overrides the API endpoint, mainly for tests.
func WithTavilyURL(url string) TavilyOption {
	return func(c *TavilyClient) {
		c.baseURL = url
	}
}

// WithTavilyDepth sets the search depth ("basic" or "advanced").
func WithTavilyDepth(depth string) TavilyOption {
	return func(c *TavilyClient) {
		c.depth = depth
	}
}

// WithTavilyHTTPClient sets a custom HTTP client.
func WithTavilyHTTPClient(hc *http.Client) TavilyOption {
	return func(c *TavilyClient) {
		c.httpClient = hc
	}
}

// NewTavilyClient creates a Tavily search client.
func NewTavilyClient(apiKey string, opts ...TavilyOption) (*TavilyClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tavily API key is required")
	}

	c := &TavilyClient{
		apiKey:  apiKey,
		baseURL: defaultTavilyURL,
		depth:   "advanced",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
	Topic       string `json:"topic"`
}

type tavilyResponse struct {
	Results []Result `json:"results"`
}

// Search runs one query against the Tavily API. A query with no hits
// returns an empty slice and a nil error.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if query == "" {
		return nil, llm.NewFatalError(fmt.Errorf("search query is required"))
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: c.depth,
		MaxResults:  maxResults,
		Topic:       "general",
	})
	if err != nil {
		return nil, llm.NewFatalError(fmt.Errorf("marshal search request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, llm.NewFatalError(fmt.Errorf("create search request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, llm.NewTransientError(fmt.Errorf("search request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchResponseSize))
	if err != nil {
		return nil, llm.NewTransientError(fmt.Errorf("read search response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifySearchError(resp.StatusCode, respBody)
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, llm.NewTransientError(fmt.Errorf("parse search response: %w", err))
	}

	if parsed.Results == nil {
		return []Result{}, nil
	}
	return parsed.Results, nil
}

// classifySearchError maps search API status codes onto the transient
// and fatal error classes the retry machinery understands.
func classifySearchError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("search API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return llm.NewTransientError(err)
	case statusCode >= 500:
		return llm.NewTransientError(err)
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return llm.NewFatalError(err)
	default:
		return llm.NewFatalError(err)
	}
}
