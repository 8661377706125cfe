package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

// DefaultUserAgent identifies boardscan to every provider.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobFinderBot/1.0; +https://example.com/bot)"

// Default per-call timeouts. The aggregator is a search and gets longer.
const (
	DefaultBoardTimeout      = 15 * time.Second
	DefaultAggregatorTimeout = 20 * time.Second
)

// Options are shared by all adapters.
type Options struct {
	UserAgent string
	Timeout   time.Duration
}

func (o Options) withDefaults(timeout time.Duration) Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = timeout
	}
	return o
}

// getJSON issues a GET bounded by opts.Timeout and decodes the body into a
// generic JSON value. label prefixes every error ("lever fetch for acme").
func getJSON(ctx context.Context, client *http.Client, opts Options, endpoint, label string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(urlErr.URL)
		}
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("%s: unexpected status %d", label, resp.StatusCode),
		}
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", label, model.ErrMalformedResponse, err)
	}
	return body, nil
}

// records keeps the JSON objects of a decoded array. Entries of any other
// type are skipped.
func records(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// listField returns body[key] as an array. A missing or null key is an empty
// result; any other type is a malformed response.
func listField(body any, key, label string) ([]any, error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: expected object, got %T", label, model.ErrMalformedResponse, body)
	}
	v, present := obj[key]
	if !present || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q is %T", label, model.ErrMalformedResponse, key, v)
	}
	return list, nil
}

// redactURL hides the api_key query parameter so request errors can be
// logged.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("api_key") == "" {
		return raw
	}
	q.Set("api_key", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
