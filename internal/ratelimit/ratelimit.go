package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

// DefaultMinDelay is the gap enforced between calls to the same provider.
const DefaultMinDelay = 500 * time.Millisecond

// ProviderLimiter enforces a minimum delay between requests to the same provider.
type ProviderLimiter struct {
	mu        sync.Mutex
	lastCall  map[model.Source]time.Time
	minDelay  time.Duration
	overrides map[model.Source]time.Duration
}

// NewProviderLimiter creates a limiter that enforces minDelay between
// consecutive requests to the same provider. overrides may set a different
// delay per provider.
func NewProviderLimiter(minDelay time.Duration, overrides map[model.Source]time.Duration) *ProviderLimiter {
	o := make(map[model.Source]time.Duration, len(overrides))
	for k, v := range overrides {
		o[k] = v
	}
	return &ProviderLimiter{
		lastCall:  make(map[model.Source]time.Time),
		minDelay:  minDelay,
		overrides: o,
	}
}

// Delay returns the gap enforced for source.
func (r *ProviderLimiter) Delay(source model.Source) time.Duration {
	if d, ok := r.overrides[source]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request to source.
// Returns an error if the context is cancelled while waiting.
func (r *ProviderLimiter) Wait(ctx context.Context, source model.Source) error {
	delay := r.Delay(source)

	r.mu.Lock()
	last, ok := r.lastCall[source]
	now := time.Now()
	if !ok || now.Sub(last) >= delay {
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}
	remaining := delay - now.Sub(last)
	// Reserve the slot so a concurrent caller queues behind this one.
	r.lastCall[source] = now.Add(remaining)
	r.mu.Unlock()

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-timer.C:
	}
	return nil
}

// RateLimitedFetcher is a decorator that enforces provider-level rate limiting
// before delegating to the wrapped JobFetcher.
type RateLimitedFetcher struct {
	inner   model.JobFetcher
	limiter *ProviderLimiter
}

// NewRateLimitedFetcher wraps a JobFetcher with provider-level rate limiting.
// All fetchers targeting the same provider should share the same limiter.
func NewRateLimitedFetcher(inner model.JobFetcher, limiter *ProviderLimiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{inner: inner, limiter: limiter}
}

func (f *RateLimitedFetcher) Source() model.Source { return f.inner.Source() }

// FetchJobs waits for the limiter, then delegates to the wrapped fetcher.
func (f *RateLimitedFetcher) FetchJobs(ctx context.Context, req model.FetchRequest) ([]model.Job, error) {
	if err := f.limiter.Wait(ctx, f.inner.Source()); err != nil {
		return nil, err
	}
	return f.inner.FetchJobs(ctx, req)
}
