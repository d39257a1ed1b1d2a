package urlutil

import (
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams are dropped from query strings; job boards append them to
// shared links, so two copies of the same posting differ only in these.
var trackingParams = map[string]struct{}{
	"gclid":      {},
	"fbclid":     {},
	"ref":        {},
	"refid":      {},
	"source":     {},
	"trk":        {},
	"trackingid": {},
	"from":       {},
}

// Normalize canonicalizes raw for deduplication: lowercase host without
// "www.", cleaned path, no fragment and sorted query without tracking
// parameters. It returns the normalized URL and its host.
func Normalize(raw string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	u.Host = normalizeHost(u.Host)
	u.Path = normalizePath(u.Path)
	u.RawQuery = normalizeQuery(u.RawQuery)
	return u.String(), u.Hostname(), nil
}

// Key returns the deduplication key for raw, falling back to the trimmed
// input when it does not parse.
func Key(raw string) string {
	normalized, _, err := Normalize(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return normalized
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := path.Clean(p)
	if clean == "." {
		return "/"
	}
	return clean
}

func normalizeQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	for key := range values {
		lk := strings.ToLower(key)
		if _, drop := trackingParams[lk]; drop || strings.HasPrefix(lk, "utm_") {
			delete(values, key)
		}
	}
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	normalized := url.Values{}
	for _, k := range keys {
		normalized[k] = values[k]
	}
	return normalized.Encode()
}
