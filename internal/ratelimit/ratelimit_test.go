package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

func TestWait_SameProvider_EnforcesMinDelay(t *testing.T) {
	limiter := NewProviderLimiter(100*time.Millisecond, nil)
	ctx := context.Background()

	if err := limiter.Wait(ctx, model.SourceGreenhouse); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, model.SourceGreenhouse); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Allow 80ms for timer jitter.
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentProviders_NoCrossBlocking(t *testing.T) {
	limiter := NewProviderLimiter(200*time.Millisecond, nil)
	ctx := context.Background()

	if err := limiter.Wait(ctx, model.SourceGreenhouse); err != nil {
		t.Fatalf("greenhouse wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, model.SourceLever); err != nil {
		t.Fatalf("lever wait: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed > 50*time.Millisecond {
		t.Errorf("expected lever wait to be near-instant, got %v", elapsed)
	}
}

func TestWait_Override(t *testing.T) {
	limiter := NewProviderLimiter(5*time.Second, map[model.Source]time.Duration{
		model.SourceSerpAPI: 0,
	})
	ctx := context.Background()

	if got := limiter.Delay(model.SourceLever); got != 5*time.Second {
		t.Errorf("Delay(Lever) = %v, want 5s", got)
	}

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, model.SourceSerpAPI); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected overridden provider to skip waiting, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewProviderLimiter(5*time.Second, nil)

	if err := limiter.Wait(context.Background(), model.SourceGreenhouse); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, model.SourceGreenhouse); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

// --- Mock for RateLimitedFetcher test ---

type recordingFetcher struct {
	called bool
	req    model.FetchRequest
}

func (f *recordingFetcher) Source() model.Source { return model.SourceGreenhouse }

func (f *recordingFetcher) FetchJobs(_ context.Context, req model.FetchRequest) ([]model.Job, error) {
	f.called = true
	f.req = req
	return nil, nil
}

func TestRateLimitedFetcher_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewProviderLimiter(100*time.Millisecond, nil)
	inner := &recordingFetcher{}
	fetcher := NewRateLimitedFetcher(inner, limiter)
	ctx := context.Background()

	if fetcher.Source() != model.SourceGreenhouse {
		t.Errorf("Source() = %s, want Greenhouse", fetcher.Source())
	}

	if _, err := fetcher.FetchJobs(ctx, model.FetchRequest{Identifier: "nuro"}); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !inner.called || inner.req.Identifier != "nuro" {
		t.Fatalf("inner fetcher not called with request: %+v", inner.req)
	}

	inner.called = false

	start := time.Now()
	if _, err := fetcher.FetchJobs(ctx, model.FetchRequest{Identifier: "wayve"}); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner fetcher was not called on second fetch")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second fetch, got %v", elapsed)
	}
}
