package scraper

import (
	"context"
)

// Result is the outcome of scraping one job page. Error is only meaningful
// when Success is false.
type Result struct {
	Success     bool   `json:"success"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Error       string `json:"error,omitempty"`
}

func failure(msg string) Result {
	return Result{Error: msg}
}

// Extractor turns one job page URL into a Result. Implementations never panic
// on bad markup and report transport problems through Result.Error.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, pageURL string) Result
}

// Cleaner post-processes recovered description text.
type Cleaner interface {
	Clean(text string) string
}
