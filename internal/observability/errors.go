package observability

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/baxromumarov/resume-screener/internal/httpx"
)

const (
	ErrorNetwork   = "network"
	ErrorParsing   = "parsing"
	ErrorAI        = "ai"
	ErrorRateLimit = "rate_limit"
	ErrorStore     = "store"
	ErrorUnknown   = "unknown"
)

func ClassifyFetchError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		if fe.Status == http.StatusTooManyRequests {
			return ErrorRateLimit
		}
		return ErrorNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorNetwork
	}
	return ErrorUnknown
}

// ClassifyScrapeMessage maps the Error text of a failed scrape to a category.
func ClassifyScrapeMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case lower == "":
		return ErrorUnknown
	case strings.Contains(lower, "status 429"):
		return ErrorRateLimit
	case strings.Contains(lower, "fetch error"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "deadline exceeded"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "connection"):
		return ErrorNetwork
	case strings.Contains(lower, "parse failed"),
		strings.Contains(lower, "could not find"),
		strings.Contains(lower, "too short"),
		strings.Contains(lower, "invalid url"),
		strings.Contains(lower, "error parsing url"):
		return ErrorParsing
	}
	return ErrorUnknown
}
