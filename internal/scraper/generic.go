package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baxromumarov/resume-screener/internal/content"
	"github.com/baxromumarov/resume-screener/internal/httpx"
)

const (
	genericTimeout = 10 * time.Second
	// genericPreferredLength is the length at which a description match is
	// taken without looking further down the selector list.
	genericPreferredLength = 100
)

var (
	genericTitles = selectors(`h1`, `h2`, `.title`, `.job-title`, `[class*="title"]`)

	genericDescriptions = selectors(
		`[class*="description"]`,
		`[class*="job-description"]`,
		`.description`,
		`.job-description`,
		`main`,
		`article`,
	)

	jsonLDScripts = selectors(`script[type="application/ld+json"]`)
)

// GenericExtractor handles any site without a dedicated extractor. It never
// reports a company.
type GenericExtractor struct {
	fetcher httpx.Fetcher
	timeout time.Duration
}

func NewGenericExtractor(fetcher httpx.Fetcher) *GenericExtractor {
	return &GenericExtractor{fetcher: fetcher, timeout: genericTimeout}
}

func (e *GenericExtractor) Name() string {
	return "generic"
}

func (e *GenericExtractor) Extract(ctx context.Context, pageURL string) (res Result) {
	defer recoverInto(&res, "Error scraping generic page")

	doc, err := loadDocument(ctx, e.fetcher, pageURL, e.timeout)
	if err != nil {
		return failure(fmt.Sprintf("Error scraping generic page: %v", err))
	}
	root := doc.Selection

	title := genericTitles.firstText(root, nonEmpty)
	description := genericDescription(root)

	if title == "" || description == "" {
		if posting, ok := firstPosting(root); ok {
			if title == "" {
				title = posting.Title
			}
			if description == "" {
				description = HTMLToText(posting.Description)
			}
		}
	}
	if title == "" {
		title = titleFromPage(doc)
	}
	if title == "" {
		title = titleFromPath(pageURL)
	}

	if description == "" {
		return failure("Could not find job description on this page")
	}
	return Result{Success: true, Title: title, Description: description}
}

// genericDescription prefers the first match longer than
// genericPreferredLength and otherwise keeps the last non-empty match.
func genericDescription(root *goquery.Selection) string {
	var last string
	for _, sel := range genericDescriptions {
		text := selectionText(root.FindMatcher(sel.match).First())
		if text == "" {
			continue
		}
		if runeLen(text) > genericPreferredLength {
			return text
		}
		last = text
	}
	return last
}

func firstPosting(root *goquery.Selection) (content.Posting, bool) {
	var found content.Posting
	var ok bool
	root.FindMatcher(jsonLDScripts[0].match).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		postings := content.ParseJobPostings(s.Text())
		if len(postings) == 0 {
			return true
		}
		found, ok = postings[0], true
		return false
	})
	return found, ok
}

// titleFromPath turns the last path segment into a title, e.g.
// "/jobs/senior-go-engineer" becomes "Senior Go Engineer".
func titleFromPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(u.Path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		p := strings.TrimSpace(parts[i])
		if p == "" {
			continue
		}
		p = strings.NewReplacer("-", " ", "_", " ").Replace(p)
		return cases.Title(language.Und).String(p)
	}
	return ""
}
