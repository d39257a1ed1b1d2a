package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/httpx"
)

const (
	DefaultAttempts             = 2
	DefaultRetryDelay           = time.Second
	DefaultMinDescriptionLength = 200
)

// Scraper validates a URL, routes it to the matching extractor, retries
// failed attempts and cleans the final result.
type Scraper struct {
	registry   *Registry
	cleaner    Cleaner
	logger     *zap.Logger
	observe    func(site string, res Result)
	attempts   int
	retryDelay time.Duration
	minDesc    int
	sleep      func(ctx context.Context, d time.Duration) error
}

type ScraperOption func(*Scraper)

func WithLogger(l *zap.Logger) ScraperOption {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResultObserver is called once per Scrape with the routed site name and
// the final result.
func WithResultObserver(fn func(site string, res Result)) ScraperOption {
	return func(s *Scraper) {
		s.observe = fn
	}
}

func WithRetryDelay(d time.Duration) ScraperOption {
	return func(s *Scraper) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

func WithAttempts(n int) ScraperOption {
	return func(s *Scraper) {
		if n > 0 {
			s.attempts = n
		}
	}
}

func WithCleaner(c Cleaner) ScraperOption {
	return func(s *Scraper) {
		if c != nil {
			s.cleaner = c
		}
	}
}

// WithMinDescriptionLength sets the shortest cleaned description accepted.
func WithMinDescriptionLength(n int) ScraperOption {
	return func(s *Scraper) {
		if n >= 0 {
			s.minDesc = n
		}
	}
}

func WithRegistry(r *Registry) ScraperOption {
	return func(s *Scraper) {
		if r != nil {
			s.registry = r
		}
	}
}

func New(f httpx.Fetcher, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		cleaner:    DescriptionCleaner{},
		logger:     zap.NewNop(),
		attempts:   DefaultAttempts,
		retryDelay: DefaultRetryDelay,
		minDesc:    DefaultMinDescriptionLength,
		sleep:      sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = DefaultRegistry(f)
	}
	return s
}

// Scrape never returns an error: every failure is reported in Result.Error.
// When all attempts fail the last attempt's message is returned.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) Result {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http") {
		return failure("Invalid URL format")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return failure(fmt.Sprintf("Error parsing URL: %v", err))
	}

	extractor := s.registry.Lookup(u.Hostname())
	var res Result
	for attempt := 1; attempt <= s.attempts; attempt++ {
		res = s.attempt(ctx, extractor, rawURL)
		s.logger.Debug("scrape attempt",
			zap.String("url", rawURL),
			zap.String("site", extractor.Name()),
			zap.Int("attempt", attempt),
			zap.Bool("success", res.Success),
			zap.String("error", res.Error),
		)
		if res.Success || attempt == s.attempts {
			break
		}
		if err := s.sleep(ctx, s.retryDelay); err != nil {
			res = failure(fmt.Sprintf("Error scraping job description: %v", err))
			break
		}
	}

	if s.observe != nil {
		s.observe(extractor.Name(), res)
	}
	return res
}

func (s *Scraper) attempt(ctx context.Context, e Extractor, rawURL string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(fmt.Sprintf("Error scraping job description: %v", r))
		}
	}()
	return s.finalize(e.Extract(ctx, rawURL))
}

func (s *Scraper) finalize(res Result) Result {
	if !res.Success {
		return res
	}
	res.Description = s.cleaner.Clean(res.Description)
	res.Title = collapseSpaces(res.Title)
	res.Company = collapseSpaces(res.Company)
	if n := runeLen(res.Description); n < s.minDesc {
		return failure(fmt.Sprintf(
			"Job description too short (%d characters). The page may use dynamic loading or have restricted access.", n))
	}
	res.Error = ""
	return res
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
