package gate

import (
	"regexp"
	"strings"
)

// Corporate jargon the writing gate rejects outright.
var forbiddenJargon = []string{
	"synergy", "leverage", "circle back", "alignment", "bandwidth",
	"touch base", "move the needle", "low-hanging fruit", "paradigm shift",
	"thinking outside the box", "win-win", "game changer", "best of breed",
}

var passiveVoicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bis\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bwas\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bare\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bwere\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bbeen\s+\w+ed\b`),
}

var statisticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+(\.\d+)?%`),       // percentages
	regexp.MustCompile(`\d+x\b`),             // multipliers
	regexp.MustCompile(`\$\d+`),              // money
	regexp.MustCompile(`\d{1,3}(,\d{3})+\b`), // large numbers with separators
}

// detectJargon returns the forbidden phrases present in text.
func detectJargon(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, phrase := range forbiddenJargon {
		if strings.Contains(lower, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}

// countPassiveVoice counts passive-voice constructions in text.
func countPassiveVoice(text string) int {
	count := 0
	for _, pattern := range passiveVoicePatterns {
		count += len(pattern.FindAllString(text, -1))
	}
	return count
}

// countWallParagraphs counts paragraphs with more than three sentences.
func countWallParagraphs(text string) int {
	walls := 0
	for _, para := range strings.Split(text, "\n\n") {
		sentences := strings.Count(para, ".") + strings.Count(para, "!") + strings.Count(para, "?")
		if sentences > 3 {
			walls++
		}
	}
	return walls
}

// hasStatistic reports whether text contains at least one concrete number
// (percentage, multiplier, money amount, or large figure).
func hasStatistic(text string) bool {
	for _, pattern := range statisticPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
