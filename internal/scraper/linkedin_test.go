package scraper

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedInCompanyFromHiringTitle(t *testing.T) {
	html := `<html><head><title>Acme Corp hiring Backend Engineer in Remote | LinkedIn</title></head><body>
		<h1 class="top-card-layout__title">Backend Engineer</h1>
		<div class="show-more-less-html">` + jobText + `</div></body></html>`

	res := NewLinkedInExtractor(newScriptedFetcher(page(html))).Extract(context.Background(), "https://www.linkedin.com/jobs/view/1")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Acme Corp", res.Company)
	assert.Equal(t, "Backend Engineer", res.Title)
}

func TestLinkedInCompanyFromDescription(t *testing.T) {
	desc := "Initech is seeking a backend engineer. " + jobText
	html := `<html><head><title>LinkedIn</title></head><body>
		<div class="show-more-less-html">` + desc + `</div></body></html>`

	res := NewLinkedInExtractor(newScriptedFetcher(page(html))).Extract(context.Background(), "https://www.linkedin.com/jobs/view/2")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Initech", res.Company)
}

func TestLinkedInSectionPass(t *testing.T) {
	html := `<html><body>
		<div class="top"><h2>About the job</h2>
			<p>We are building the next generation of logistics software for small shops.</p>
			<ul><li>Own backend services in Go and PostgreSQL end to end.</li>
			<li>Partner with product on roadmap and technical design reviews.</li></ul>
			<div>Mentor engineers and raise the quality bar across the whole team.</div>
			<span>skipped because spans are not content blocks in this pass</span>
			<p>short</p>
		</div></body></html>`

	res := NewLinkedInExtractor(newScriptedFetcher(page(html))).Extract(context.Background(), "https://www.linkedin.com/jobs/view/3")

	require.True(t, res.Success, res.Error)
	assert.Contains(t, res.Description, "logistics software")
	assert.Contains(t, res.Description, "Mentor engineers")
	assert.NotContains(t, res.Description, "skipped because")
	assert.NotContains(t, res.Description, "short")
}

func TestLinkedInIncompletePage(t *testing.T) {
	html := `<html><body><h1>Sign in</h1><div class="show-more-less-html">Join now to see this job.</div></body></html>`

	res := NewLinkedInExtractor(newScriptedFetcher(page(html))).Extract(context.Background(), "https://www.linkedin.com/jobs/view/4")

	assert.False(t, res.Success)
	assert.Equal(t, linkedInIncomplete, res.Error)
}

func TestLinkedInStripsUINoise(t *testing.T) {
	out := stripLinkedInNoise("Great role. Apply now or Join or sign in. First name Last name Email Password. By clicking Agree you accept our privacy policy. Build APIs.")
	assert.Equal(t, "Great role. now or . . . Build APIs.", out)
}

func TestDescriptionScoringPick(t *testing.T) {
	long := func(prefix string, n int) string {
		return prefix + strings.Repeat("x", n)
	}
	qualifying := long("requirements: ", 250)
	longerQualifying := long("responsibilities: ", 400)
	uiNoise := long("sign in to see requirements ", 600)
	tooShort := long("requirements ", 50)

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"longest qualifying wins", []string{qualifying, longerQualifying}, longerQualifying},
		{"qualifying beats earlier fallback", []string{uiNoise, qualifying}, qualifying},
		{"fallback when nothing qualifies", []string{tooShort, uiNoise}, uiNoise},
		{"fallback needs more than 500", []string{long("sign in ", 300)}, ""},
		{"short candidates ignored", []string{tooShort}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, linkedInScoring.Pick(tt.candidates))
		})
	}
}

func TestLinkedInThresholdAppliesToCleanedText(t *testing.T) {
	build := func(n int) string {
		return `<html><body><h1 class="job-title">Engineer</h1><div class="show-more-less-html">` +
			"Requirements: " + strings.Repeat("x", n) + ` cookie</div></body></html>`
	}

	// 200 runes once the cookie notice is cleaned away
	res := newTestScraper(newScriptedFetcher(page(build(186)))).Scrape(context.Background(), "https://www.linkedin.com/jobs/view/9")
	assert.False(t, res.Success)
	assert.Equal(t, linkedInIncomplete, res.Error)

	res = newTestScraper(newScriptedFetcher(page(build(187)))).Scrape(context.Background(), "https://www.linkedin.com/jobs/view/9")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 201, len([]rune(res.Description)))
}
