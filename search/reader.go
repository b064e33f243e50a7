package search

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	readerTimeout  = 15 * time.Second
	readerAgent    = "draftforge/0.1"
	readerMaxBytes = 2 << 20
)

// Reader fetches a web page and extracts its readable article. It
// backs the research stage's deep read of top search hits.
type Reader struct {
	fetcher   *Fetcher
	extractor *Extractor
}

// NewReader creates a page reader with hardened fetch defaults.
func NewReader() *Reader {
	return &Reader{
		fetcher:   NewFetcher(readerTimeout, readerAgent, readerMaxBytes),
		extractor: NewExtractor(),
	}
}

// Read fetches pageURL and returns its main article as markdown.
func (r *Reader) Read(ctx context.Context, pageURL string) (*Page, error) {
	result, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	if ct := result.ContentType; ct != "" && !strings.Contains(ct, "html") {
		return nil, fmt.Errorf("not an HTML page: %s", ct)
	}

	return r.extractor.Extract(result.Body, pageURL)
}
