package scraper

import (
	"strings"

	"github.com/baxromumarov/resume-screener/internal/httpx"
)

type route struct {
	domain    string
	extractor Extractor
}

// Registry maps host substrings to extractors. Routes are checked in
// registration order and the fallback handles everything else.
type Registry struct {
	routes   []route
	fallback Extractor
}

func NewRegistry(fallback Extractor) *Registry {
	return &Registry{fallback: fallback}
}

// Register routes every host containing domain to e.
func (r *Registry) Register(domain string, e Extractor) *Registry {
	r.routes = append(r.routes, route{domain: strings.ToLower(domain), extractor: e})
	return r
}

// Lookup picks the extractor for host. The host is matched case-insensitively
// by substring, so subdomains such as "www." or "uk." match too.
func (r *Registry) Lookup(host string) Extractor {
	host = strings.ToLower(host)
	for _, rt := range r.routes {
		if strings.Contains(host, rt.domain) {
			return rt.extractor
		}
	}
	return r.fallback
}

// Domains lists the registered domains in lookup order.
func (r *Registry) Domains() []string {
	out := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt.domain)
	}
	return out
}

// DefaultRegistry wires every built-in extractor to f.
func DefaultRegistry(f httpx.Fetcher) *Registry {
	return NewRegistry(NewGenericExtractor(f)).
		Register("linkedin.com", NewLinkedInExtractor(f)).
		Register("indeed.com", NewSiteExtractor(indeedRules, f)).
		Register("glassdoor.com", NewSiteExtractor(glassdoorRules, f)).
		Register("monster.com", NewSiteExtractor(monsterRules, f)).
		Register("careerbuilder.com", NewSiteExtractor(careerBuilderRules, f))
}
