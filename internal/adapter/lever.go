package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/normalize"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// Ensure LeverAdapter implements model.JobFetcher.
var _ model.JobFetcher = (*LeverAdapter)(nil)

// LeverAdapter fetches postings from the Lever public postings API. The
// request identifier is the company slug from jobs.lever.co/{slug}.
type LeverAdapter struct {
	baseURL string
	client  *http.Client
	opts    Options
}

// NewLeverAdapter creates an adapter for Lever boards.
func NewLeverAdapter(client *http.Client, opts Options) *LeverAdapter {
	return &LeverAdapter{
		baseURL: leverBaseURL,
		client:  client,
		opts:    opts.withDefaults(DefaultBoardTimeout),
	}
}

func (a *LeverAdapter) Source() model.Source { return model.SourceLever }

// FetchJobs retrieves every posting of one Lever board and normalizes them.
// An empty slug returns no jobs without a request.
func (a *LeverAdapter) FetchJobs(ctx context.Context, req model.FetchRequest) ([]model.Job, error) {
	slug := req.Identifier
	if slug == "" {
		return nil, nil
	}
	label := fmt.Sprintf("lever fetch for %s", slug)
	endpoint := fmt.Sprintf("%s/%s?mode=json", a.baseURL, url.PathEscape(slug))

	body, err := getJSON(ctx, a.client, a.opts, endpoint, label)
	if err != nil {
		return nil, err
	}

	list, ok := body.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: expected array, got %T", label, model.ErrMalformedResponse, body)
	}

	postings := records(list)
	jobs := make([]model.Job, 0, len(postings))
	for _, p := range postings {
		jobs = append(jobs, normalize.Normalize(model.SourceLever, slug, p))
	}
	return jobs, nil
}
