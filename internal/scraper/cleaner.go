package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxDescriptionLength caps cleaned descriptions, counted in runes.
	MaxDescriptionLength = 5000
	// TruncationMarker is appended to capped descriptions.
	TruncationMarker = "..."

	maxCleanPasses = 10
)

// boilerplatePatterns is the fixed denylist applied to every description.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bcookie\b`),
	regexp.MustCompile(`(?i)\bprivacy policy\b`),
	regexp.MustCompile(`(?i)\bterms of service\b`),
	regexp.MustCompile(`(?i)©.*?all rights reserved`),
	regexp.MustCompile(`(?i)\bpowered by\b`),
	regexp.MustCompile(`(?i)\bloading\.\.\.`),
	regexp.MustCompile(`(?i)(?:base\s+)?pay range\s*\$[\d,]+\.?\d*\s*-\s*\$[\d,]+\.?\d*\s*yr`),
}

// DescriptionCleaner is the default Cleaner.
type DescriptionCleaner struct{}

func (DescriptionCleaner) Clean(text string) string {
	return CleanDescription(text)
}

// CleanDescription collapses whitespace, strips boilerplate phrases, trims and
// caps the result at MaxDescriptionLength runes plus TruncationMarker.
// Applying it twice gives the same result as applying it once.
func CleanDescription(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	body := stripBoilerplate(text)
	for utf8.RuneCountInString(body) > MaxDescriptionLength {
		runes := []rune(body)
		capped := string(runes[:MaxDescriptionLength]) + TruncationMarker
		start, end, ok := firstBoilerplate(capped)
		if !ok {
			return capped
		}
		// The cut or the marker completed a phrase: drop the phrase from the
		// body and cut again from the longer remainder.
		end = min(end, MaxDescriptionLength)
		if start >= end {
			start = end - 1
		}
		body = stripBoilerplate(string(runes[:start]) + " " + string(runes[end:]))
	}
	return body
}

// firstBoilerplate reports the rune span of the leftmost denylisted phrase.
func firstBoilerplate(text string) (int, int, bool) {
	best := -1
	var bestEnd int
	for _, re := range boilerplatePatterns {
		loc := re.FindStringIndex(text)
		if loc == nil || (best >= 0 && loc[0] >= best) {
			continue
		}
		best, bestEnd = loc[0], loc[1]
	}
	if best < 0 {
		return 0, 0, false
	}
	return utf8.RuneCountInString(text[:best]), utf8.RuneCountInString(text[:bestEnd]), true
}

// stripBoilerplate removes denylisted phrases until none remain; a removal can
// join two fragments into a new match.
func stripBoilerplate(text string) string {
	out := collapseSpaces(text)
	for i := 0; i < maxCleanPasses; i++ {
		next := out
		for _, re := range boilerplatePatterns {
			next = re.ReplaceAllString(next, "")
		}
		next = collapseSpaces(next)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
