package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	DefaultAcceptLanguage = "en-US,en;q=0.5"
	DefaultTimeout        = 15 * time.Second
)

// Fetcher downloads a single page body.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
}

// PageFetcher fetches pages through colly with a fixed desktop browser identity.
// It is built once and shared; every call gets its own collector, so concurrent
// use only shares the underlying transport.
type PageFetcher struct {
	userAgent     string
	headers       http.Header
	transport     http.RoundTripper
	respectRobots bool
	observe       func(host string, err error)
}

type Option func(*PageFetcher)

// WithTransport replaces the round tripper used for every request.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *PageFetcher) {
		if rt != nil {
			f.transport = rt
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(f *PageFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRobots makes the fetcher consult robots.txt before each page.
func WithRobots(respect bool) Option {
	return func(f *PageFetcher) {
		f.respectRobots = respect
	}
}

// WithObserver registers a callback invoked after every fetch.
func WithObserver(fn func(host string, err error)) Option {
	return func(f *PageFetcher) {
		f.observe = fn
	}
}

type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error (status %d)", e.Status)
	}
	return fmt.Sprintf("fetch error (status %d): %v", e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewPageFetcher(opts ...Option) *PageFetcher {
	f := &PageFetcher{
		userAgent: DefaultUserAgent,
		headers: http.Header{
			"Accept":                    []string{DefaultAccept},
			"Accept-Language":           []string{DefaultAcceptLanguage},
			"Upgrade-Insecure-Requests": []string{"1"},
		},
		transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs one GET and returns the body. Non-2xx responses, timeouts and
// connection failures come back as *FetchError.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	body, status, err := f.fetchOnce(ctx, target, timeout)
	if f.observe != nil {
		f.observe(hostOf(target), err)
	}
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &FetchError{Status: status, Err: err}
	}
	return body, nil
}

func (f *PageFetcher) fetchOnce(ctx context.Context, target string, timeout time.Duration) ([]byte, int, error) {
	c := f.newCollector(timeout)

	var body []byte
	status := 0
	var reqErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	collyCtx := colly.NewContext()
	collyCtx.Put("ctx", ctx)

	if err := c.Request(http.MethodGet, target, nil, collyCtx, f.headers.Clone()); err != nil {
		if reqErr != nil {
			err = reqErr
		}
		return nil, status, err
	}
	if reqErr != nil {
		return nil, status, reqErr
	}
	if ctx.Err() != nil {
		return nil, status, ctx.Err()
	}
	if status >= 300 {
		return nil, status, &FetchError{Status: status, Err: errors.New(http.StatusText(status))}
	}
	if status == 0 {
		status = http.StatusOK
	}
	return body, status, nil
}

func (f *PageFetcher) newCollector(timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(f.userAgent), colly.AllowURLRevisit())
	c.IgnoreRobotsTxt = !f.respectRobots
	c.SetRequestTimeout(timeout)
	c.WithTransport(f.transport)
	c.DisableCookies()

	c.OnRequest(func(r *colly.Request) {
		ctx := context.Background()
		if v := r.Ctx.GetAny("ctx"); v != nil {
			if reqCtx, ok := v.(context.Context); ok {
				ctx = reqCtx
			}
		}
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	return c
}

func normalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
