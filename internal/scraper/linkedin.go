package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/baxromumarov/resume-screener/internal/httpx"
)

const (
	linkedInTimeout = 15 * time.Second
	// linkedInMinDescription must be exceeded by the cleaned description.
	linkedInMinDescription = 200
	// sectionPassThreshold triggers the section-heading pass and ends it.
	sectionPassThreshold = 500
	maxSectionSiblings   = 10
	minSectionPartLength = 20

	linkedInIncomplete = "Could not find complete job description on LinkedIn page. " +
		"The page may use dynamic loading or have restricted access."
)

var linkedInTitles = selectors(
	`h1[class*="job-title"]`,
	`h1[class*="title"]`,
	`.job-title`,
	`.title`,
	`[data-testid="job-title"]`,
	`[class*="job-title"]`,
	`h1[class*="text-heading"]`,
	`h1`,
	`h2`,
	`[class*="title"]`,
	`[class*="heading"]`,
	`[data-testid="job-details-jobs-unified-top-card-job-title"]`,
	`[class*="jobs-unified-top-card__job-title"]`,
	`[class*="jobs-unified-top-card__title"]`,
	`h1:first-of-type`,
	`h2:first-of-type`,
)

var linkedInDescriptions = selectors(
	`[class*="jobs-description__content"]`,
	`[class*="jobs-box__html-content"]`,
	`[class*="jobs-description-content__text"]`,
	`[class*="job-description__content"]`,
	`[class*="description__text"]`,
	`.show-more-less-html`,
	`[data-testid="job-description"]`,
	`[data-testid="job-details-jobs-unified-top-card-job-description"]`,
)

var linkedInCompanies = selectors(
	`[data-testid="job-details-jobs-unified-top-card-company-name"]`,
	`[class*="jobs-unified-top-card__company-name"]`,
	`[class*="company-name"]`,
	`[class*="employer"]`,
	`[class*="organization"]`,
	`[class*="company"]`,
	`.company`,
	`.employer`,
	`.organization`,
)

// DescriptionScoring decides which container text is the job description.
// Candidates must exceed MinLength. Text mentioning any UI indicator is
// disqualified; the longest text with a job indicator wins. When nothing
// qualifies, the first candidate longer than FallbackLength is used.
type DescriptionScoring struct {
	MinLength      int
	FallbackLength int
	UIIndicators   []string
	JobIndicators  []string
}

var linkedInScoring = DescriptionScoring{
	MinLength:      200,
	FallbackLength: 500,
	UIIndicators: []string{
		"apply", "join", "sign in", "first name", "last name", "email", "password",
		"agree & join", "continue", "security verification", "already on linkedin",
		"new to linkedin", "remove photo", "forgot password", "show", "hide",
	},
	JobIndicators: []string{
		"requirements", "qualifications", "responsibilities", "about", "role", "position",
		"experience", "skills", "duties", "expectations", "candidate", "applicant",
		"job description", "what you will do", "what you'll do", "key responsibilities",
		"essential functions", "opportunity", "mission", "company", "team",
	},
}

// Pick returns the chosen candidate or "" when none is acceptable.
func (s DescriptionScoring) Pick(candidates []string) string {
	var best, fallback string
	for _, text := range candidates {
		n := runeLen(text)
		if n <= s.MinLength {
			continue
		}
		lower := strings.ToLower(text)
		if containsAny(lower, s.JobIndicators) && !containsAny(lower, s.UIIndicators) {
			if n > runeLen(best) {
				best = text
			}
			continue
		}
		if fallback == "" && n > s.FallbackLength {
			fallback = text
		}
	}
	if best != "" {
		return best
	}
	return fallback
}

var sectionHeadings = []string{
	"about the job", "about us", "about the company", "what's the opportunity",
	"what will i be doing", "what skills do i need", "requirements", "qualifications",
}

var sectionContentTags = map[string]struct{}{
	"p": {}, "div": {}, "li": {}, "ul": {}, "ol": {},
}

// linkedInNoise is LinkedIn sign-in and apply UI that leaks into containers.
var linkedInNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpay found in job post\b`),
	regexp.MustCompile(`(?i)\bretrieved from the description\b`),
	regexp.MustCompile(`(?i)\bapply\b`),
	regexp.MustCompile(`(?i)join or sign in`),
	regexp.MustCompile(`(?i)first name`),
	regexp.MustCompile(`(?i)last name`),
	regexp.MustCompile(`(?i)\bemail\b`),
	regexp.MustCompile(`(?i)\bpassword\b`),
	regexp.MustCompile(`(?i)agree & join`),
	regexp.MustCompile(`(?i)\bcontinue\b`),
	regexp.MustCompile(`(?i)security verification`),
	regexp.MustCompile(`(?i)already on linkedin`),
	regexp.MustCompile(`(?i)new to linkedin`),
	regexp.MustCompile(`(?i)remove photo`),
	regexp.MustCompile(`(?i)forgot password`),
	regexp.MustCompile(`(?i)use ai to assess`),
	regexp.MustCompile(`(?i)am i a good fit`),
	regexp.MustCompile(`(?i)tailor my resume`),
	regexp.MustCompile(`(?i)sign in to access`),
	regexp.MustCompile(`(?i)welcome back`),
	regexp.MustCompile(`(?i)not you\?`),
	regexp.MustCompile(`(?i)by clicking.*?policy`),
	regexp.MustCompile(`(?i)you may also apply`),
}

// LinkedInExtractor handles linkedin.com job pages.
type LinkedInExtractor struct {
	fetcher httpx.Fetcher
	timeout time.Duration
}

func NewLinkedInExtractor(fetcher httpx.Fetcher) *LinkedInExtractor {
	return &LinkedInExtractor{fetcher: fetcher, timeout: linkedInTimeout}
}

func (e *LinkedInExtractor) Name() string {
	return "LinkedIn"
}

func (e *LinkedInExtractor) Extract(ctx context.Context, pageURL string) (res Result) {
	defer recoverInto(&res, "Error scraping LinkedIn")

	doc, err := loadDocument(ctx, e.fetcher, pageURL, e.timeout)
	if err != nil {
		return failure(fmt.Sprintf("Error scraping LinkedIn: %v", err))
	}

	title := linkedInTitles.firstText(doc.Selection, titleLength)
	if title == "" {
		title = titleFromPage(doc)
	}

	description := linkedInScoring.Pick(linkedInDescriptions.allTexts(doc.Selection))
	if runeLen(description) < sectionPassThreshold {
		if section := sectionDescription(doc); runeLen(section) > runeLen(description) {
			description = section
		}
	}
	description = CleanDescription(stripLinkedInNoise(description))

	if runeLen(description) <= linkedInMinDescription {
		return failure(linkedInIncomplete)
	}

	return Result{
		Success:     true,
		Title:       title,
		Description: description,
		Company:     linkedInCompany(doc, description),
	}
}

// sectionDescription finds text nodes naming a typical section heading and
// gathers the paragraph and list siblings that follow the heading element.
func sectionDescription(doc *goquery.Document) string {
	if len(doc.Nodes) == 0 {
		return ""
	}
	root := doc.Nodes[0]
	var best string
	for _, heading := range sectionHeadings {
		textNodes(root, func(n *html.Node) bool {
			if !strings.Contains(strings.ToLower(n.Data), heading) || n.Parent == nil {
				return true
			}
			candidate := collectSiblingText(n.Parent)
			if runeLen(candidate) > runeLen(best) {
				best = candidate
			}
			return runeLen(best) <= sectionPassThreshold
		})
		if runeLen(best) > sectionPassThreshold {
			break
		}
	}
	return best
}

func collectSiblingText(heading *html.Node) string {
	var parts []string
	for sib := heading.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		if _, ok := sectionContentTags[sib.Data]; !ok {
			continue
		}
		if text := nodeText(sib); runeLen(text) > minSectionPartLength {
			parts = append(parts, text)
		}
		if len(parts) >= maxSectionSiblings {
			break
		}
	}
	return strings.Join(parts, "\n")
}

func stripLinkedInNoise(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range linkedInNoise {
		text = re.ReplaceAllString(text, "")
	}
	return collapseSpaces(text)
}

// linkedInCompany runs the company fallback chain: selectors, page title,
// description patterns, then the leading capitalized word.
func linkedInCompany(doc *goquery.Document, description string) string {
	company := linkedInCompanies.firstText(doc.Selection, companyLength)
	if company == "" {
		company = companyFromPageTitle(pageTitle(doc))
	}
	if company != "" {
		company = sanitizeCompany(company)
	}
	if company == "" {
		company = companyFromDescription(description)
	}
	if company == "" {
		company = leadingCompanyToken(description)
	}
	return company
}
