package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Source identifies where a job posting came from.
type Source string

const (
	SourceLever      Source = "Lever"
	SourceGreenhouse Source = "Greenhouse"
	SourceSerpAPI    Source = "SerpAPI"
	SourceUnknown    Source = "Unknown"
)

// Unified representation of a job posting from any source.
type Job struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Team        string   `json:"team"`
	Commitment  string   `json:"commitment"`
	URL         string   `json:"url,omitempty"`       // empty when the source has no link
	Description string   `json:"description"`         // bounded plain text
	PostedAt    string   `json:"posted_at,omitempty"` // raw ISO-8601-ish timestamp, empty when unknown
	Source      Source   `json:"source"`
	Tags        []string `json:"tags"`
}

// BoardRef is a company board parsed from a board URL.
type BoardRef struct {
	Source Source
	Slug   string
}

// FetchRequest is what a fetcher needs for one call. Board fetchers only use
// Identifier (the board slug); the aggregator uses all three fields.
type FetchRequest struct {
	Identifier string
	Location   string
	Credential string
}

// CacheKey returns the identity of the request for response caching. The
// credential is hashed so it never lands in a cache backend in clear text.
func (r FetchRequest) CacheKey() string {
	if r.Location == "" && r.Credential == "" {
		return r.Identifier
	}
	parts := []string{r.Identifier, r.Location}
	if r.Credential != "" {
		sum := sha256.Sum256([]byte(r.Credential))
		parts = append(parts, hex.EncodeToString(sum[:8]))
	}
	return strings.Join(parts, "|")
}

// JobFetcher fetches job postings from a single provider.
type JobFetcher interface {
	Source() Source
	FetchJobs(ctx context.Context, req FetchRequest) ([]Job, error)
}

// JobFilter decides whether a job matches the user's criteria.
type JobFilter interface {
	Match(job Job) bool
}

// Notifier sends the matched jobs of a scan somewhere.
type Notifier interface {
	Notify(jobs []Job) error
}
