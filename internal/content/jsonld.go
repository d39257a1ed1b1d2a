package content

import (
	"encoding/json"
	"strings"
	"time"
)

// Posting is the subset of a schema.org JobPosting the screener uses.
type Posting struct {
	URL         string
	Title       string
	Description string
	Company     string
	Location    string
	PostedAt    time.Time
}

// ParseJobPostings decodes one ld+json script body and returns every
// JobPosting it contains, including ones nested in @graph or arrays.
func ParseJobPostings(raw string) []Posting {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	var out []Posting
	collectPostings(payload, &out)
	return out
}

func collectPostings(payload any, out *[]Posting) {
	switch t := payload.(type) {
	case map[string]any:
		if p, ok := postingFromMap(t); ok {
			*out = append(*out, p)
		}
		if graph, ok := t["@graph"].([]any); ok {
			for _, item := range graph {
				collectPostings(item, out)
			}
		}
	case []any:
		for _, item := range t {
			collectPostings(item, out)
		}
	}
}

func postingFromMap(payload map[string]any) (Posting, bool) {
	if !isJobPostingType(payload["@type"]) {
		return Posting{}, false
	}
	p := Posting{
		URL:         stringField(payload["url"]),
		Title:       stringField(payload["title"]),
		Description: stringField(payload["description"]),
		Company:     orgName(payload["hiringOrganization"]),
		Location:    parseLocation(payload["jobLocation"]),
		PostedAt:    parseDate(payload["datePosted"]),
	}
	if p.Title == "" && p.Description == "" {
		return Posting{}, false
	}
	return p, true
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func stringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if s, ok := t["@value"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func orgName(v any) string {
	if name := stringField(v); name != "" {
		return name
	}
	if org, ok := v.(map[string]any); ok {
		return stringField(org["name"])
	}
	return ""
}

func parseLocation(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if loc := parseLocation(item); loc != "" {
				return loc
			}
		}
	case map[string]any:
		if addr, ok := t["address"].(map[string]any); ok {
			return joinNonEmpty(
				stringField(addr["addressLocality"]),
				stringField(addr["addressRegion"]),
				stringField(addr["addressCountry"]),
			)
		}
		return stringField(t["name"])
	}
	return ""
}

func parseDate(v any) time.Time {
	val := stringField(v)
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t
		}
	}
	return time.Time{}
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
