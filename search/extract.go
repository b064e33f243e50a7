package search

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
)

// excessiveLinesRe collapses runs of blank lines left behind by
// conversion.
var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// Page is the readable content of a fetched web page.
type Page struct {
	Title    string
	Markdown string
	Excerpt  string
	SiteName string
}

// Extractor isolates the main article of an HTML page and converts it
// to markdown suitable for prompt context.
type Extractor struct {
	converter *md.Converter
}

// NewExtractor creates a page content extractor.
func NewExtractor() *Extractor {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Extractor{
		converter: converter,
	}
}

// Extract parses HTML and returns the readable article as markdown.
// pageURL resolves relative links in the document.
func (e *Extractor) Extract(htmlContent []byte, pageURL string) (*Page, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(htmlContent), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extract readable content: %w", err)
	}

	markdown, err := e.converter.ConvertString(article.Content)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}

	markdown = cleanMarkdown(markdown)
	if markdown == "" {
		return nil, fmt.Errorf("no readable content found")
	}

	return &Page{
		Title:    article.Title,
		Markdown: markdown,
		Excerpt:  article.Excerpt,
		SiteName: article.SiteName,
	}, nil
}

// cleanMarkdown normalizes whitespace in converted markdown.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = strings.Join(lines, "\n")

	return strings.TrimSpace(content)
}
