package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/baxromumarov/resume-screener/internal/httpx"
)

// SiteRules configures a single-pass extractor: ranked selectors per field and
// the minimum description length a match must exceed.
type SiteRules struct {
	Name           string
	Timeout        time.Duration
	Title          selectorList
	TitleFromPage  bool
	Description    selectorList
	MinDescription int
	Company        selectorList
}

var (
	indeedRules = SiteRules{
		Name:    "Indeed",
		Timeout: 10 * time.Second,
		Title: selectors(
			`h1[data-testid="jobsearch-JobInfoHeader-title"]`,
			`h1[class*="jobsearch-JobInfoHeader-title"]`,
			`h1[class*="title"]`,
			`h1`,
			`[data-testid="job-title"]`,
			`[class*="job-title"]`,
		),
		TitleFromPage: true,
		Description: selectors(
			`[data-testid="jobsearch-JobComponent-description"]`,
			`[class*="jobsearch-JobComponent-description"]`,
			`[class*="job-description"]`,
			`[class*="description"]`,
			`.job-description`,
			`.description`,
			`[data-testid="job-description"]`,
		),
		MinDescription: 100,
		Company: selectors(
			`[data-testid="jobsearch-JobInfoHeader-companyName"]`,
			`[class*="company-name"]`,
			`[class*="employer"]`,
			`.company-name`,
			`.employer`,
		),
	}

	glassdoorRules = SiteRules{
		Name:          "Glassdoor",
		Timeout:       10 * time.Second,
		Title:         selectors(`h1[class*="job-title"]`),
		TitleFromPage: true,
		Description:   selectors(`[class*="job-description"]`),
	}

	monsterRules = SiteRules{
		Name:          "Monster",
		Timeout:       10 * time.Second,
		Title:         selectors(`h1[class*="title"]`),
		TitleFromPage: true,
		Description:   selectors(`[class*="job-description"]`),
	}

	careerBuilderRules = SiteRules{
		Name:          "CareerBuilder",
		Timeout:       10 * time.Second,
		Title:         selectors(`h1[class*="title"]`),
		TitleFromPage: true,
		Description:   selectors(`[class*="job-description"]`),
	}
)

// SiteExtractor applies SiteRules to a fetched page.
type SiteExtractor struct {
	rules   SiteRules
	fetcher httpx.Fetcher
}

func NewSiteExtractor(rules SiteRules, fetcher httpx.Fetcher) *SiteExtractor {
	return &SiteExtractor{rules: rules, fetcher: fetcher}
}

func (e *SiteExtractor) Name() string {
	return e.rules.Name
}

func (e *SiteExtractor) Extract(ctx context.Context, pageURL string) (res Result) {
	prefix := "Error scraping " + e.rules.Name
	defer recoverInto(&res, prefix)

	doc, err := loadDocument(ctx, e.fetcher, pageURL, e.rules.Timeout)
	if err != nil {
		return failure(fmt.Sprintf("%s: %v", prefix, err))
	}
	root := doc.Selection

	title := e.rules.Title.firstText(root, titleLength)
	if title == "" && e.rules.TitleFromPage {
		title = titleFromPage(doc)
	}

	description := e.rules.Description.firstText(root, lengthBetween(e.rules.MinDescription, 0))
	if description == "" {
		return failure(fmt.Sprintf("Could not find job description on %s page", e.rules.Name))
	}

	var company string
	if len(e.rules.Company) > 0 {
		company = e.rules.Company.firstText(root, companyLength)
	}

	return Result{
		Success:     true,
		Title:       title,
		Description: description,
		Company:     company,
	}
}
