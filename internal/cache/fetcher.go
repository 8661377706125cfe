package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

// CachedFetcher is a decorator that serves fresh snapshots from a Store and
// only reaches the wrapped fetcher on a miss.
type CachedFetcher struct {
	inner  model.JobFetcher
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedFetcher wraps a JobFetcher with a response cache. A zero ttl uses
// DefaultTTL.
func NewCachedFetcher(inner model.JobFetcher, store Store, ttl time.Duration, logger *slog.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedFetcher{inner: inner, store: store, ttl: ttl, logger: logger}
}

func (f *CachedFetcher) Source() model.Source { return f.inner.Source() }

// FetchJobs returns the cached snapshot when present. Failed fetches are
// never stored, so the next call retries the provider.
func (f *CachedFetcher) FetchJobs(ctx context.Context, req model.FetchRequest) ([]model.Job, error) {
	key := Key(f.inner.Source(), req)

	jobs, ok, err := f.store.Get(ctx, key)
	if err != nil {
		f.logger.Warn("cache read failed, fetching directly", "key", key, "error", err)
	} else if ok {
		f.logger.Debug("cache hit", "key", key, "jobs", len(jobs))
		return cloneJobs(jobs), nil
	}

	jobs, err = f.inner.FetchJobs(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := f.store.Set(ctx, key, jobs, f.ttl); err != nil {
		f.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return jobs, nil
}

// Key is the store key for a fetch against source.
func Key(source model.Source, req model.FetchRequest) string {
	return fmt.Sprintf("%s:%s", source, req.CacheKey())
}
