package scraper

import (
	"regexp"
	"strings"
	"unicode"
)

// titleCompanyRule recovers a company name from a page <title> containing sep.
type titleCompanyRule struct {
	sep  string
	pick func(title string) string
}

// titleCompanyRules are tried in order; the first rule whose separator is
// present decides, even when it yields nothing.
var titleCompanyRules = []titleCompanyRule{
	// "Acme hiring Backend Engineer in Remote | LinkedIn"
	{sep: " hiring ", pick: func(t string) string {
		return strings.SplitN(t, " hiring ", 2)[0]
	}},
	// "Backend Engineer - Acme | LinkedIn"
	{sep: " - ", pick: func(t string) string {
		return beforePipe(strings.Split(t, " - ")[1])
	}},
	// "Backend Engineer at Acme | LinkedIn"
	{sep: " at ", pick: func(t string) string {
		return beforePipe(strings.SplitN(t, " at ", 2)[1])
	}},
}

func beforePipe(s string) string {
	return strings.SplitN(s, " | ", 2)[0]
}

func companyFromPageTitle(title string) string {
	for _, rule := range titleCompanyRules {
		if strings.Contains(title, rule.sep) {
			return strings.TrimSpace(rule.pick(title))
		}
	}
	return ""
}

var companyUINoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you may also apply directly on.*?website`),
	regexp.MustCompile(`(?i)apply directly on.*?website`),
	regexp.MustCompile(`(?i)powered by.*`),
	regexp.MustCompile(`(?i)©.*?all rights reserved`),
	regexp.MustCompile(`(?i)loading\.\.\.`),
	regexp.MustCompile(`(?i)pay found in job post`),
	regexp.MustCompile(`(?i)retrieved from the description`),
}

var suspiciousCompanyFragments = []string{"apply", "website", "directly", "loading"}

// sanitizeCompany strips UI text and rejects candidates that still look like UI.
func sanitizeCompany(company string) string {
	for _, re := range companyUINoise {
		company = re.ReplaceAllString(company, "")
	}
	company = collapseSpaces(company)
	if runeLen(company) < 3 || containsAny(strings.ToLower(company), suspiciousCompanyFragments) {
		return ""
	}
	return company
}

// companyJargon guards the description patterns against generic phrases
// captured in place of a name. A capture made only of these words is rejected.
var companyJargon = map[string]struct{}{
	"gaps": {}, "patient": {}, "care": {}, "healthcare": {}, "quality": {},
	"systems": {}, "hospitals": {}, "payers": {}, "use": {}, "improve": {},
	"drive": {}, "member": {}, "enrollment": {}, "acquisition": {},
	"retention": {}, "reimbursement": {}, "scaling": {}, "growth": {},
	"hiring": {}, "staff": {},
}

func validCompanyName(name string) bool {
	n := runeLen(name)
	if n < 3 || n > 50 {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if _, jargon := companyJargon[w]; !jargon {
			return true
		}
	}
	return false
}

// CompanyRule pairs a description pattern with a validator for its capture.
type CompanyRule struct {
	Name     string
	Pattern  *regexp.Regexp
	Validate func(string) bool
}

// Apply reports the company captured by the first match of the pattern, if valid.
func (r CompanyRule) Apply(description string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(description)
	if len(m) < 2 {
		return "", false
	}
	candidate := strings.TrimSpace(m[1])
	if !r.Validate(candidate) {
		return "", false
	}
	return candidate, true
}

func companyRule(name, pattern string) CompanyRule {
	return CompanyRule{Name: name, Pattern: regexp.MustCompile(pattern), Validate: validCompanyName}
}

// DescriptionCompanyRules are evaluated in order against description text.
var DescriptionCompanyRules = []CompanyRule{
	companyRule("role-at", `(?i)\brole at ([A-Z][a-zA-Z0-9\s&]+?)(?:\s|$|\.|,)`),
	companyRule("at-verb", `(?i)\bat ([A-Z][a-zA-Z0-9\s&]+?)(?:\s+is|\s+seeking|\s+looking|\s+needs)`),
	companyRule("is-seeking", `(?i)([A-Z][a-zA-Z0-9\s&]+?)\s+is\s+seeking`),
	companyRule("looking-for", `(?i)([A-Z][a-zA-Z0-9\s&]+?)\s+looking\s+for`),
	companyRule("join-as", `(?i)\bjoin ([A-Z][a-zA-Z0-9\s&]+?)\s+as`),
	companyRule("is-hiring", `(?i)([A-Z][a-zA-Z0-9\s&]+?)\s+is\s+hiring`),
	companyRule("has-opening", `(?i)([A-Z][a-zA-Z0-9\s&]+?)\s+has\s+an\s+opening`),
}

func companyFromDescription(description string) string {
	for _, rule := range DescriptionCompanyRules {
		if company, ok := rule.Apply(description); ok {
			return company
		}
	}
	return ""
}

var leadingCapitalized = regexp.MustCompile(`^([A-Z][a-zA-Z0-9&]*)`)

func leadingCompanyToken(description string) string {
	m := leadingCapitalized.FindStringSubmatch(strings.TrimSpace(description))
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
