package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockFetcher calls a function on each invocation, tracking call count.
type mockFetcher struct {
	calls int
	fn    func(attempt int) ([]model.Job, error)
}

func (m *mockFetcher) Source() model.Source { return model.SourceLever }

func (m *mockFetcher) FetchJobs(_ context.Context, _ model.FetchRequest) ([]model.Job, error) {
	m.calls++
	return m.fn(m.calls)
}

var req = model.FetchRequest{Identifier: "wayve"}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	jobs := []model.Job{{Title: "SDET"}}
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return jobs, nil
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rf.FetchJobs(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "SDET" {
		t.Fatalf("unexpected jobs: %v", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
	if rf.Source() != model.SourceLever {
		t.Errorf("Source() = %s, want Lever", rf.Source())
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) ([]model.Job, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return []model.Job{{Title: "SDET"}}, nil
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	got, err := rf.FetchJobs(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 job, got %d", len(got))
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_RetriesNetworkErrors(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) ([]model.Job, error) {
		if attempt == 1 {
			return nil, fmt.Errorf("lever fetch for wayve: %w", errors.New("connection reset by peer"))
		}
		return nil, nil
	}}

	rf := NewRetryFetcher(mock, 1, 5*time.Millisecond, discardLogger())
	if _, err := rf.FetchJobs(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"404", &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}},
		{"401", &model.HTTPError{StatusCode: 401, Err: errors.New("unauthorized")}},
		{"malformed", fmt.Errorf("greenhouse fetch for nuro: %w", model.ErrMalformedResponse)},
		{"deadline", fmt.Errorf("lever fetch for wayve: %w", context.DeadlineExceeded)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
				return nil, tt.err
			}}

			rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
			_, err := rf.FetchJobs(context.Background(), req)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if mock.calls != 1 {
				t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
			}
		})
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rf.FetchJobs(context.Background(), req)
	if err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_ZeroRetriesCallsOnce(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return nil, &model.HTTPError{StatusCode: 502}
	}}

	rf := NewRetryFetcher(mock, 0, time.Millisecond, discardLogger())
	if _, err := rf.FetchJobs(context.Background(), req); err == nil {
		t.Fatal("expected error, got nil")
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]model.Job, error) {
		return nil, &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel immediately so the backoff sleep is interrupted.
	cancel()

	rf := NewRetryFetcher(mock, 2, time.Second, discardLogger())
	_, err := rf.FetchJobs(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestBackoffDelay(t *testing.T) {
	rf := NewRetryFetcher(&mockFetcher{}, 3, 100*time.Millisecond, discardLogger())

	if got := rf.backoffDelay(1, &model.HTTPError{StatusCode: 429, RetryAfter: 3 * time.Second}); got != 3*time.Second {
		t.Errorf("Retry-After should win, got %v", got)
	}

	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 400 * time.Millisecond} {
		got := rf.backoffDelay(attempt, errors.New("boom"))
		lo := time.Duration(float64(base) * 0.7)
		hi := time.Duration(float64(base) * 1.3)
		if got < lo || got > hi {
			t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, got, lo, hi)
		}
	}
}
