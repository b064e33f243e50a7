package content

import (
	"fmt"
	"strings"
)

// HookCount is the fixed number of alternative opening lines a draft
// carries, one per rhetorical pattern.
const HookCount = 3

// VisualAsset describes the recommended visual accompaniment for a post.
type VisualAsset struct {
	Format          string   `json:"format,omitempty"` // carousel, video, photo, poll, quote-card, text-only
	Suggestion      string   `json:"suggestion,omitempty"`
	CarouselOutline []string `json:"carousel_outline,omitempty"`
	PollOptions     []string `json:"poll_options,omitempty"`
}

// Draft is the writer's artifact: a structured post ready for review.
type Draft struct {
	Hooks    []string    `json:"hooks"`
	Body     string      `json:"post_body"`
	CTA      string      `json:"cta"`
	Hashtags []string    `json:"hashtags,omitempty"`
	Visual   VisualAsset `json:"visual_asset,omitzero"`
}

// CharacterCount returns the length of the rendered body in characters.
// Gate size bounds are measured against this value.
func (d *Draft) CharacterCount() int {
	return len([]rune(d.Body))
}

// WordCount returns the number of whitespace-separated words in the body.
func (d *Draft) WordCount() int {
	return len(strings.Fields(d.Body))
}

// ParagraphBreaks counts blank-line separations in the body. Mobile
// readability rules require a minimum number of these.
func (d *Draft) ParagraphBreaks() int {
	return strings.Count(d.Body, "\n\n")
}

// EstimatedReadTime estimates reading time at 200 words per minute.
func (d *Draft) EstimatedReadTime() string {
	words := d.WordCount()
	seconds := words * 60 / 200
	if seconds < 60 {
		if seconds < 5 {
			seconds = 5
		}
		return fmt.Sprintf("%d seconds", seconds)
	}
	minutes := (seconds + 30) / 60
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
