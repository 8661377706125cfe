package filter

import (
	"strings"
	"time"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/textutil"
)

// Ensure Matcher implements model.JobFilter.
var _ model.JobFilter = (*Matcher)(nil)

// Matcher keeps a job only when it passes the keyword, location and recency
// predicates. Keywords and locations are normalized once at construction.
type Matcher struct {
	keywords   []string
	locations  []string
	remoteOK   bool
	windowDays int
	now        func() time.Time
}

// NewMatcher returns a matcher for the given criteria. Empty keywords and
// locations are dropped.
func NewMatcher(keywords, locations []string, remoteOK bool, windowDays int) *Matcher {
	return &Matcher{
		keywords:   normalizeAll(keywords),
		locations:  normalizeAll(locations),
		remoteOK:   remoteOK,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// WithClock replaces the clock used by the recency predicate.
func (m *Matcher) WithClock(now func() time.Time) *Matcher {
	m.now = now
	return m
}

// Match returns true if the job passes all three predicates.
func (m *Matcher) Match(job model.Job) bool {
	return keywordMatch(job, m.keywords) &&
		locationMatch(job, m.locations, m.remoteOK) &&
		RecencyMatch(job, m.windowDays, m.now())
}

// KeywordMatch returns true if any keyword occurs as a substring of the job's
// title, company, location, description and tags. Comparison ignores case and
// whitespace runs. Plain substring containment: "QA" matches "IQAir".
func KeywordMatch(job model.Job, keywords []string) bool {
	return keywordMatch(job, normalizeAll(keywords))
}

func keywordMatch(job model.Job, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	haystack := textutil.Normalize(strings.Join([]string{
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		strings.Join(job.Tags, " "),
	}, " "))
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// LocationMatch returns true if remoteOK is set and the job is remote or has
// no location at all, or if the job's location contains any of locations.
func LocationMatch(job model.Job, locations []string, remoteOK bool) bool {
	return locationMatch(job, normalizeAll(locations), remoteOK)
}

func locationMatch(job model.Job, locations []string, remoteOK bool) bool {
	loc := textutil.Normalize(job.Location)
	if remoteOK && (loc == "" || strings.Contains(loc, "remote")) {
		return true
	}
	for _, l := range locations {
		if strings.Contains(loc, l) {
			return true
		}
	}
	return false
}

// normalizeAll normalizes every entry and drops the ones that end up empty.
func normalizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := textutil.Normalize(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}
