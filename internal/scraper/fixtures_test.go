package scraper

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/baxromumarov/resume-screener/internal/httpx"
)

// scriptedFetcher answers each call with the next step; the last step repeats.
type scriptedFetcher struct {
	mu    sync.Mutex
	steps []fetchStep
	calls int
	urls  []string
}

type fetchStep struct {
	body string
	err  error
}

func page(body string) fetchStep { return fetchStep{body: body} }

func status(code int) fetchStep {
	return fetchStep{err: &httpx.FetchError{Status: code, Err: errors.New(http.StatusText(code))}}
}

func newScriptedFetcher(steps ...fetchStep) *scriptedFetcher {
	return &scriptedFetcher{steps: steps}
}

func (f *scriptedFetcher) Fetch(_ context.Context, rawURL string, _ time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	step := f.steps[min(f.calls, len(f.steps)-1)]
	f.calls++
	f.urls = append(f.urls, rawURL)
	if step.err != nil {
		return nil, step.err
	}
	return []byte(step.body), nil
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// jobText is realistic job content with no LinkedIn UI indicator words.
var jobText = strings.TrimSpace(strings.Repeat(
	"Responsibilities: design and operate backend services written in Go. "+
		"Requirements: five years of experience with distributed systems and databases. ", 4))

func newTestScraper(f httpx.Fetcher, opts ...ScraperOption) *Scraper {
	return New(f, append([]ScraperOption{WithRetryDelay(0)}, opts...)...)
}
