// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outbound page requests.
//
// Implementations must be safe to call from a single fetch loop; Wait blocks
// until the request for urlStr may proceed or ctx is done.
type Limiter interface {
	Wait(ctx context.Context, urlStr string) error
}

// HostPacer keeps one token bucket per host. A non-positive rate disables
// pacing entirely, which is the default for exports.
type HostPacer struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
	burst    int
}

// NewHostPacer creates a pacer allowing requestsPerSecond per host
func NewHostPacer(requestsPerSecond float64, burst int) *HostPacer {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	return &HostPacer{
		limiters: make(map[string]*rate.Limiter),
		perHost:  limit,
		burst:    burst,
	}
}

// Wait blocks until a request to urlStr is allowed
func (p *HostPacer) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if p.perHost == rate.Inf {
		return ctx.Err()
	}

	host := extractHost(urlStr)
	if host == "" {
		// Let the fetch itself report the bad URL
		return nil
	}

	return p.limiter(host).Wait(ctx)
}

// Unlimited reports whether pacing is disabled
func (p *HostPacer) Unlimited() bool {
	return p.perHost == rate.Inf
}

func (p *HostPacer) limiter(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(p.perHost, p.burst)
	p.limiters[host] = l
	return l
}

func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
