package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/normalize"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// Ensure GreenhouseAdapter implements model.JobFetcher.
var _ model.JobFetcher = (*GreenhouseAdapter)(nil)

// GreenhouseAdapter fetches jobs from the Greenhouse public boards API. The
// request identifier is the board token from boards.greenhouse.io/{token}.
type GreenhouseAdapter struct {
	baseURL string
	client  *http.Client
	opts    Options
}

// NewGreenhouseAdapter creates an adapter for Greenhouse boards.
func NewGreenhouseAdapter(client *http.Client, opts Options) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		baseURL: greenhouseBaseURL,
		client:  client,
		opts:    opts.withDefaults(DefaultBoardTimeout),
	}
}

func (a *GreenhouseAdapter) Source() model.Source { return model.SourceGreenhouse }

// FetchJobs retrieves all jobs from one Greenhouse board and normalizes them.
// The list endpoint has no descriptions, so Description is always empty.
func (a *GreenhouseAdapter) FetchJobs(ctx context.Context, req model.FetchRequest) ([]model.Job, error) {
	token := req.Identifier
	if token == "" {
		return nil, nil
	}
	label := fmt.Sprintf("greenhouse fetch for %s", token)
	endpoint := fmt.Sprintf("%s/%s/jobs", a.baseURL, url.PathEscape(token))

	body, err := getJSON(ctx, a.client, a.opts, endpoint, label)
	if err != nil {
		return nil, err
	}

	list, err := listField(body, "jobs", label)
	if err != nil {
		return nil, err
	}

	postings := records(list)
	jobs := make([]model.Job, 0, len(postings))
	for _, p := range postings {
		jobs = append(jobs, normalize.Normalize(model.SourceGreenhouse, token, p))
	}
	return jobs, nil
}
