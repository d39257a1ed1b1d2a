package httpx

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultHostInterval = time.Second
	DefaultHostBurst    = 2
)

// PoliteTransport paces requests per host so batch runs against one job
// board do not hammer it. Hosts are limited independently.
type PoliteTransport struct {
	base     http.RoundTripper
	interval time.Duration
	burst    int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPoliteTransport wraps base. A non-positive interval disables pacing.
func NewPoliteTransport(base http.RoundTripper, interval time.Duration, burst int) *PoliteTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if burst <= 0 {
		burst = DefaultHostBurst
	}
	return &PoliteTransport{
		base:     base,
		interval: interval,
		burst:    burst,
		limiters: map[string]*rate.Limiter{},
	}
}

func (p *PoliteTransport) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[host]; ok {
		return l
	}
	limit := rate.Inf
	if p.interval > 0 {
		limit = rate.Every(p.interval)
	}
	l := rate.NewLimiter(limit, p.burst)
	p.limiters[host] = l
	return l
}

// RoundTrip waits for the host's limiter, honouring the request context.
func (p *PoliteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := p.limiterFor(req.URL.Hostname()).Wait(req.Context()); err != nil {
		return nil, err
	}
	return p.base.RoundTrip(req)
}
