package filter

import (
	"testing"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

func TestParsePostedAt(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"2026-02-13T10:00:00Z", time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC), true},
		{"2026-02-13T10:00:00+00:00", time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC), true},
		{"2026-01-30T14:41:14.110Z", time.Date(2026, 1, 30, 14, 41, 14, 110_000_000, time.UTC), true},
		{"2026-01-30T14:41:14.110000", time.Date(2026, 1, 30, 14, 41, 14, 110_000_000, time.UTC), true},
		{"2026-02-13 10:00:00", time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC), true},
		{"2026-02-13T10:00", time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC), true},
		{"2026-02-13", time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC), true},
		{"2026-02-13T10:00:00-05:00", time.Date(2026, 2, 13, 15, 0, 0, 0, time.UTC), true},
		{"3 days ago", time.Time{}, false},
		{"", time.Time{}, false},
		{"13/02/2026", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePostedAt(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParsePostedAt(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParsePostedAt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAgeDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"same instant", now, 0},
		{"23 hours ago", now.Add(-23 * time.Hour), 0},
		{"exactly one day", now.Add(-24 * time.Hour), 1},
		{"36 hours ago", now.Add(-36 * time.Hour), 1},
		{"an hour in the future", now.Add(time.Hour), -1},
		{"exactly a day in the future", now.Add(24 * time.Hour), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeDays(tt.t, now); got != tt.want {
				t.Errorf("AgeDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecencyMatch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 14
	at := func(d time.Duration) model.Job {
		return model.Job{PostedAt: now.Add(-d).Format(time.RFC3339)}
	}

	if !RecencyMatch(at(time.Duration(window)*24*time.Hour), window, now) {
		t.Error("job posted exactly window days ago should pass")
	}
	if RecencyMatch(at(time.Duration(window+1)*24*time.Hour), window, now) {
		t.Error("job posted window+1 days ago should fail")
	}
	if !RecencyMatch(model.Job{PostedAt: "3 days ago"}, window, now) {
		t.Error("unparseable posted_at should pass")
	}
	if !RecencyMatch(model.Job{}, window, now) {
		t.Error("missing posted_at should pass")
	}
	if !RecencyMatch(at(-48*time.Hour), window, now) {
		t.Error("future posted_at should pass")
	}
}
