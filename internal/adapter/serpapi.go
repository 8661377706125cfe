package adapter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/normalize"
)

const serpAPIBaseURL = "https://serpapi.com/search.json"

// Ensure SerpAPIAdapter implements model.JobFetcher.
var _ model.JobFetcher = (*SerpAPIAdapter)(nil)

// SerpAPIAdapter searches Google Jobs through SerpAPI. The request identifier
// is the search query; Location and Credential (the API key) are passed on.
type SerpAPIAdapter struct {
	baseURL string
	client  *http.Client
	opts    Options
}

// NewSerpAPIAdapter creates the aggregator adapter.
func NewSerpAPIAdapter(client *http.Client, opts Options) *SerpAPIAdapter {
	return &SerpAPIAdapter{
		baseURL: serpAPIBaseURL,
		client:  client,
		opts:    opts.withDefaults(DefaultAggregatorTimeout),
	}
}

func (a *SerpAPIAdapter) Source() model.Source { return model.SourceSerpAPI }

// FetchJobs runs one Google Jobs search. Without an API key or a query it
// returns no jobs and makes no request.
func (a *SerpAPIAdapter) FetchJobs(ctx context.Context, req model.FetchRequest) ([]model.Job, error) {
	if req.Credential == "" || req.Identifier == "" {
		return nil, nil
	}
	label := "serpapi search"

	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", req.Identifier)
	params.Set("location", req.Location)
	params.Set("api_key", req.Credential)
	params.Set("hl", "en")

	body, err := getJSON(ctx, a.client, a.opts, a.baseURL+"?"+params.Encode(), label)
	if err != nil {
		return nil, err
	}

	list, err := listField(body, "jobs_results", label)
	if err != nil {
		return nil, err
	}

	results := records(list)
	jobs := make([]model.Job, 0, len(results))
	for _, r := range results {
		jobs = append(jobs, normalize.Normalize(model.SourceSerpAPI, "", r))
	}
	return jobs, nil
}
