package content

import (
	"regexp"
	"strings"
)

const (
	UnknownLocation = "Unknown"
	UnknownSalary   = "Not specified"
)

// Metadata is what can be recovered from the description text alone.
type Metadata struct {
	Location    string
	SalaryRange string
}

// Location patterns are tried in order. State codes are matched case
// sensitively since lowercase "in" or "or" are ordinary words.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(remote|hybrid|on-site)\b`),
	regexp.MustCompile(`(?i)\b(San Francisco|New York|NYC|Los Angeles|Seattle|Austin|Boston|Chicago|Denver|Atlanta|Miami|Dallas|Houston|Phoenix|Portland|San Diego|Las Vegas|Nashville|Charlotte|Raleigh|Durham|Salt Lake City|Minneapolis|Detroit|Philadelphia|Pittsburgh|Columbus|Indianapolis|Kansas City|St\. Louis|Cleveland|Cincinnati|Milwaukee|Buffalo|Rochester|Albany|Syracuse|Binghamton|Ithaca)\b`),
	regexp.MustCompile(`\b(CA|NY|TX|FL|WA|IL|PA|OH|GA|NC|VA|CO|AZ|NV|OR|TN|SC|AL|MS|LA|AR|OK|KS|NE|SD|ND|MN|IA|MO|WI|MI|IN|KY|WV|MD|DE|NJ|CT|RI|MA|VT|NH|ME|MT|ID|WY|UT|NM|AK|HI)\b`),
}

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*)\s*-\s*\$(\d{1,3}(?:,\d{3})*)\s*(?:per\s+year|annually|yearly|yr)`),
	regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*)\s*to\s*\$(\d{1,3}(?:,\d{3})*)\s*(?:per\s+year|annually|yearly|yr)`),
	regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*)\s*-\s*(\d{1,3}(?:,\d{3})*)\s*(?:per\s+year|annually|yearly|yr)`),
}

// canonicalWorkMode keeps the casing stable regardless of how the page wrote it.
var canonicalWorkMode = map[string]string{
	"remote":  "Remote",
	"hybrid":  "Hybrid",
	"on-site": "On-site",
}

func ExtractMetadata(description string) Metadata {
	return Metadata{
		Location:    extractLocation(description),
		SalaryRange: extractSalary(description),
	}
}

func extractLocation(text string) string {
	for _, re := range locationPatterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if mode, ok := canonicalWorkMode[strings.ToLower(m[1])]; ok {
			return mode
		}
		return m[1]
	}
	return UnknownLocation
}

func extractSalary(text string) string {
	for _, re := range salaryPatterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 3 {
			continue
		}
		low := strings.ReplaceAll(m[1], ",", "")
		high := strings.ReplaceAll(m[2], ",", "")
		return "$" + low + "-$" + high + "/year"
	}
	return UnknownSalary
}
