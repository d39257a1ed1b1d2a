package scraper

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanDescriptionRemovesBoilerplate(t *testing.T) {
	in := "We build   payments.\n\nRead our Privacy Policy and Terms of Service. " +
		"Cookie settings. Powered by Workday. © 2024 Acme Inc. All rights reserved. Loading... " +
		"Base pay range $120,000.00 - $150,000.00 yr"

	out := CleanDescription(in)

	lower := strings.ToLower(out)
	for _, phrase := range []string{"privacy policy", "terms of service", "cookie", "powered by", "all rights reserved", "loading...", "pay range"} {
		assert.NotContains(t, lower, phrase)
	}
	assert.True(t, strings.HasPrefix(out, "We build payments."))
	assert.NotContains(t, out, "  ")
}

func TestCleanDescriptionIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"plain text",
		"privacy cookie policy",
		"terms of cookie service and more",
		strings.Repeat("word ", 1200),
		strings.Repeat("x", 4993) + " loading... tail",
		strings.Repeat("é", 6000),
	}
	for _, in := range inputs {
		once := CleanDescription(in)
		assert.Equal(t, once, CleanDescription(once), "input prefix %q", prefix(in))
	}
}

func TestCleanDescriptionNestedPhrase(t *testing.T) {
	assert.Equal(t, "", CleanDescription("privacy cookie policy"))
}

func TestCleanDescriptionLengthCap(t *testing.T) {
	out := CleanDescription(strings.Repeat("a", 6000))
	assert.Equal(t, MaxDescriptionLength+len(TruncationMarker), utf8.RuneCountInString(out))
	assert.True(t, strings.HasSuffix(out, TruncationMarker))

	multi := CleanDescription(strings.Repeat("é", 6000))
	assert.Equal(t, MaxDescriptionLength+3, utf8.RuneCountInString(multi))

	short := strings.Repeat("b", MaxDescriptionLength)
	assert.Equal(t, short, CleanDescription(short))

	// the cut followed by the marker would read "loading....."
	edge := strings.Repeat("a", 4990) + " loading..z" + strings.Repeat("b", 100)
	capped := CleanDescription(edge)
	assert.Equal(t, MaxDescriptionLength+len(TruncationMarker), utf8.RuneCountInString(capped))
	assert.True(t, strings.HasSuffix(capped, TruncationMarker))
	assert.True(t, strings.HasPrefix(capped, strings.Repeat("a", 4990)+" z"))
	assert.NotContains(t, capped, "loading")
	assert.Equal(t, capped, CleanDescription(capped))
}

func prefix(s string) string {
	if len(s) > 20 {
		return s[:20]
	}
	return s
}
