package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/boardscan/internal/model"
)

func TestGreenhouseAdapter_FetchJobs_Success(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 12345,
				"title": "Validation Engineer",
				"location": {"name": "Palo Alto, CA"},
				"departments": [{"name": "Vehicle Systems"}],
				"absolute_url": "https://boards.greenhouse.io/lucidmotors/jobs/12345",
				"updated_at": "2026-02-13T10:00:00-05:00"
			},
			{
				"id": 67890,
				"title": "Systems Test Engineer",
				"location": null,
				"absolute_url": "https://boards.greenhouse.io/lucidmotors/jobs/67890",
				"created_at": "2026-02-11T14:00:00Z"
			}
		],
		"meta": {"total": 2}
	}`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	jobs, err := newGreenhouseTestAdapter(srv).FetchJobs(context.Background(), model.FetchRequest{Identifier: "lucidmotors"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/boards/lucidmotors/jobs" {
		t.Errorf("path = %s, want /v1/boards/lucidmotors/jobs", gotPath)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Company != "lucidmotors" {
		t.Errorf("expected company lucidmotors, got %s", j.Company)
	}
	if j.Title != "Validation Engineer" {
		t.Errorf("expected title Validation Engineer, got %s", j.Title)
	}
	if j.Location != "Palo Alto, CA" {
		t.Errorf("expected location Palo Alto, CA, got %s", j.Location)
	}
	if j.Team != "Vehicle Systems" {
		t.Errorf("expected team Vehicle Systems, got %s", j.Team)
	}
	if j.Source != model.SourceGreenhouse {
		t.Errorf("expected source Greenhouse, got %s", j.Source)
	}
	if j.Description != "" {
		t.Errorf("expected empty description, got %q", j.Description)
	}
	if j.PostedAt != "2026-02-13T10:00:00-05:00" {
		t.Errorf("expected updated_at, got %s", j.PostedAt)
	}

	j2 := jobs[1]
	if j2.Location != "" {
		t.Errorf("expected empty location for null, got %q", j2.Location)
	}
	if j2.PostedAt != "2026-02-11T14:00:00Z" {
		t.Errorf("expected created_at fallback, got %s", j2.PostedAt)
	}
}

func TestGreenhouseAdapter_FetchJobs_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs": []}`))
	}))
	defer srv.Close()

	jobs, err := newGreenhouseTestAdapter(srv).FetchJobs(context.Background(), model.FetchRequest{Identifier: "empty-co"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}

func TestGreenhouseAdapter_FetchJobs_MissingJobsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {}}`))
	}))
	defer srv.Close()

	jobs, err := newGreenhouseTestAdapter(srv).FetchJobs(context.Background(), model.FetchRequest{Identifier: "acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}

func TestGreenhouseAdapter_FetchJobs_MalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not valid json`},
		{"array body", `[]`},
		{"jobs not a list", `{"jobs": "none"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newGreenhouseTestAdapter(srv).FetchJobs(context.Background(), model.FetchRequest{Identifier: "bad-co"})
			if !errors.Is(err, model.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestGreenhouseAdapter_FetchJobs_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newGreenhouseTestAdapter(srv).FetchJobs(context.Background(), model.FetchRequest{Identifier: "missing"})
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}

// --- helpers ---

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// newGreenhouseTestAdapter creates a GreenhouseAdapter wired to a test server.
func newGreenhouseTestAdapter(srv *httptest.Server) *GreenhouseAdapter {
	a := NewGreenhouseAdapter(srv.Client(), Options{})
	a.baseURL = srv.URL + "/v1/boards"
	return a
}
