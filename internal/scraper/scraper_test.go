package scraper

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeRejectsNonHTTPWithoutFetching(t *testing.T) {
	f := newScriptedFetcher(page("<html></html>"))
	s := newTestScraper(f)

	for _, in := range []string{"", "   ", "www.indeed.com/viewjob", "ftp://example.com/job", "linkedin.com/jobs/1"} {
		res := s.Scrape(context.Background(), in)
		assert.False(t, res.Success)
		assert.Equal(t, "Invalid URL format", res.Error)
	}
	assert.Zero(t, f.Calls())
}

func TestScrapeIndeedEndToEnd(t *testing.T) {
	desc := strings.TrimSpace(strings.Repeat("Build reliable data pipelines in Python and SQL. ", 6))
	html := fmt.Sprintf(`<html><head><title>Data Engineer - Indeed</title></head><body>
		<h1 data-testid="jobsearch-JobInfoHeader-title">Data Engineer</h1>
		<div data-testid="jobsearch-JobInfoHeader-companyName">Initech</div>
		<div class="jobsearch-JobComponent-description css-1"><p>%s</p></div>
	</body></html>`, desc)
	f := newScriptedFetcher(page(html))

	res := newTestScraper(f).Scrape(context.Background(), "https://www.indeed.com/viewjob?jk=test")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Data Engineer", res.Title)
	assert.Equal(t, desc, res.Description)
	assert.Equal(t, "Initech", res.Company)
	assert.Empty(t, res.Error)
	assert.Equal(t, []string{"https://www.indeed.com/viewjob?jk=test"}, f.urls)
}

func TestScrapeSiteFixtures(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		html    string
		title   string
		company string
	}{
		{
			name: "glassdoor",
			url:  "https://www.glassdoor.com/job-listing/backend-engineer-JV_IC1.htm",
			html: `<html><body><h1 class="job-title-heading">Backend Engineer</h1>
				<div class="job-description-body">` + jobText + `<p>Privacy Policy</p></div></body></html>`,
			title: "Backend Engineer",
		},
		{
			name: "monster",
			url:  "https://www.monster.com/job-openings/go-developer",
			html: `<html><body><h1 class="job-title">Go Developer</h1>
				<section class="job-description">` + jobText + ` Powered by Monster</section></body></html>`,
			title: "Go Developer",
		},
		{
			name: "careerbuilder",
			url:  "https://www.careerbuilder.com/job/J3",
			html: `<html><head><title>Site Reliability Engineer | CareerBuilder</title></head><body>
				<h1 class="heading">Ignored</h1>
				<div class="job-description">` + jobText + ` Cookie notice</div></body></html>`,
			title: "Site Reliability Engineer",
		},
		{
			name: "generic",
			url:  "https://careers.example.org/jobs/platform-engineer",
			html: `<html><body><h1>Platform Engineer</h1><main>` + jobText + ` Terms of Service</main></body></html>`,
			title: "Platform Engineer",
		},
		{
			name: "linkedin",
			url:  "https://www.linkedin.com/jobs/view/123",
			html: `<html><head><title>Backend Engineer at Globex | LinkedIn</title></head><body>
				<h1 class="top-card-layout__title">Backend Engineer</h1>
				<a class="topcard__org-name-link company-name">Globex</a>
				<div class="show-more-less-html">` + jobText + `</div></body></html>`,
			title:   "Backend Engineer",
			company: "Globex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestScraper(newScriptedFetcher(page(tt.html))).Scrape(context.Background(), tt.url)

			require.True(t, res.Success, res.Error)
			assert.Equal(t, tt.title, res.Title)
			assert.Equal(t, tt.company, res.Company)
			assert.Contains(t, res.Description, "distributed systems")
			lower := strings.ToLower(res.Description)
			for _, phrase := range []string{"privacy policy", "powered by", "cookie", "terms of service"} {
				assert.NotContains(t, lower, phrase)
			}
		})
	}
}

func TestScrapeRetryUsesSecondAttempt(t *testing.T) {
	html := `<html><body><h1 class="job-title">Backend Engineer</h1>
		<div class="job-description">` + jobText + `</div></body></html>`
	f := newScriptedFetcher(status(503), page(html))

	res := newTestScraper(f).Scrape(context.Background(), "https://www.glassdoor.com/job/1")

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Backend Engineer", res.Title)
	assert.Equal(t, 2, f.Calls())
}

func TestScrapeRetryReportsLastFailure(t *testing.T) {
	f := newScriptedFetcher(status(500), status(404))

	res := newTestScraper(f).Scrape(context.Background(), "https://www.indeed.com/viewjob?jk=gone")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Error scraping Indeed")
	assert.Contains(t, res.Error, "404")
	assert.NotContains(t, res.Error, "500")
	assert.Equal(t, 2, f.Calls())
}

func TestScrapeStopsAfterSuccess(t *testing.T) {
	html := `<html><body><h1>Engineer</h1><article>` + jobText + `</article></body></html>`
	f := newScriptedFetcher(page(html))

	res := newTestScraper(f).Scrape(context.Background(), "https://example.com/job")

	require.True(t, res.Success)
	assert.Equal(t, 1, f.Calls())
}

func TestScrapeRejectsShortDescription(t *testing.T) {
	short := strings.Repeat("z", 150)
	html := `<html><body><h1>Engineer</h1><main>` + short + `</main></body></html>`

	res := newTestScraper(newScriptedFetcher(page(html))).Scrape(context.Background(), "https://example.com/job")

	assert.False(t, res.Success)
	assert.Equal(t, "Job description too short (150 characters). "+
		"The page may use dynamic loading or have restricted access.", res.Error)
}

func TestScrapeMinDescriptionConfigurable(t *testing.T) {
	html := `<html><body><h1>Engineer</h1><main>` + strings.Repeat("z", 150) + `</main></body></html>`
	s := newTestScraper(newScriptedFetcher(page(html)), WithMinDescriptionLength(100))

	assert.True(t, s.Scrape(context.Background(), "https://example.com/job").Success)
}

type panicExtractor struct{}

func (panicExtractor) Name() string { return "panicky" }

func (panicExtractor) Extract(context.Context, string) Result { panic("boom") }

func TestScrapeRecoversPanics(t *testing.T) {
	reg := NewRegistry(panicExtractor{})
	var observed []string
	s := newTestScraper(newScriptedFetcher(page("")),
		WithRegistry(reg),
		WithResultObserver(func(site string, res Result) { observed = append(observed, site) }),
	)

	res := s.Scrape(context.Background(), "https://example.com/job")

	assert.False(t, res.Success)
	assert.Equal(t, "Error scraping job description: boom", res.Error)
	assert.Equal(t, []string{"panicky"}, observed)
}

func TestScrapeHonoursCancelledContextBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newScriptedFetcher(status(500))

	res := New(f).Scrape(ctx, "https://example.com/job")

	assert.False(t, res.Success)
	assert.Equal(t, 1, f.Calls())
	assert.Contains(t, res.Error, "context canceled")
}

func TestRegistryLookup(t *testing.T) {
	reg := DefaultRegistry(newScriptedFetcher(page("")))

	tests := map[string]string{
		"www.linkedin.com":      "LinkedIn",
		"uk.indeed.com":         "Indeed",
		"WWW.GLASSDOOR.COM":     "Glassdoor",
		"www.monster.com":       "Monster",
		"www.careerbuilder.com": "CareerBuilder",
		"jobs.example.com":      "generic",
	}
	for host, want := range tests {
		assert.Equal(t, want, reg.Lookup(host).Name(), host)
	}
	assert.Equal(t, []string{"linkedin.com", "indeed.com", "glassdoor.com", "monster.com", "careerbuilder.com"}, reg.Domains())
}
