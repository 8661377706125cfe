package model

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrMalformedResponse is returned when a provider answers 2xx with a body
// that is not the JSON shape its endpoint documents.
var ErrMalformedResponse = errors.New("malformed response")

// HTTPError is a non-2xx provider answer. Retry logic inspects StatusCode and
// RetryAfter.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // zero when the header is absent
	Err        error
}

func (e *HTTPError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Err != nil {
		return fmt.Sprintf("HTTP %s: %v", status, e.Err)
	}
	return "HTTP " + status
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the same request may succeed.
func (e *HTTPError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
