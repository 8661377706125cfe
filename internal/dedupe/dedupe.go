// Package dedupe collapses duplicate postings collected from several boards
// and the search aggregator.
package dedupe

import (
	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/textutil"
)

// key identifies a posting. Title and company are normalized; the URL is
// compared verbatim, so links that differ only by query string or trailing
// slash count as different postings.
type key struct {
	title   string
	company string
	url     string
}

// keyOf returns the dedup identity of a job.
func keyOf(j model.Job) key {
	return key{
		title:   textutil.Normalize(j.Title),
		company: textutil.Normalize(j.Company),
		url:     j.URL,
	}
}

// Dedupe returns jobs with duplicates removed, keeping the first occurrence
// and the original order. The input slice is not modified.
func Dedupe(jobs []model.Job) []model.Job {
	seen := make(map[key]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		k := keyOf(j)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, j)
	}
	return out
}
