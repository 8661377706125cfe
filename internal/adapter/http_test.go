package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestGetJSON_TransportErrorRedactsURL(t *testing.T) {
	client := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}
	opts := Options{}.withDefaults(DefaultBoardTimeout)

	_, err := getJSON(context.Background(), client, opts, "http://serpapi.invalid/search.json?q=qa&api_key=hunter2", "serpapi fetch")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("expected *url.Error in chain, got %T: %v", err, err)
	}
	if strings.Contains(urlErr.URL, "hunter2") {
		t.Errorf("url.Error.URL = %q, want api_key redacted", urlErr.URL)
	}
	if !strings.HasPrefix(err.Error(), "serpapi fetch: ") {
		t.Errorf("error = %q, want label prefix", err)
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no key", "https://api.lever.co/v0/postings/wayve?mode=json", "https://api.lever.co/v0/postings/wayve?mode=json"},
		{"key replaced", "https://serpapi.com/search.json?api_key=abc&q=qa", "https://serpapi.com/search.json?api_key=REDACTED&q=qa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactURL(tt.raw); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
