// Package search provides web research capabilities: a search API
// client, a hardened page fetcher, and readable-content extraction.
package search

import "context"

// Result is a single search hit.
type Result struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Snippet       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date,omitempty"`
}

// Searcher performs a web search. Implementations return an empty
// slice, not an error, when a query matches nothing.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
