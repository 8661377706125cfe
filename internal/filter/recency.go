package filter

import (
	"strings"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

// Layouts accepted for PostedAt once UTC markers are stripped. Parsing
// accepts fractional seconds after the seconds field even when the layout
// does not spell them out.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

var offsetLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// ParsePostedAt parses an ISO-8601-ish timestamp. A trailing "Z" or "+00:00"
// is removed and the rest read as UTC; other explicit offsets are honoured.
// Free text such as "3 days ago" reports ok == false.
func ParsePostedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.ReplaceAll(s, "Z", "")
	s = strings.ReplaceAll(s, "+00:00", "")

	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// AgeDays returns the number of whole days between t and now, rounded down.
// A timestamp less than a day in the future is -1 days old.
func AgeDays(t, now time.Time) int {
	const day = 24 * time.Hour
	d := now.Sub(t)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// PostedAge returns the age in days of the job's PostedAt, or ok == false
// when it is absent or unparseable.
func PostedAge(job model.Job, now time.Time) (days int, ok bool) {
	t, ok := ParsePostedAt(job.PostedAt)
	if !ok {
		return 0, false
	}
	return AgeDays(t, now), true
}

// RecencyMatch returns true if the job was posted at most windowDays days
// before now. Jobs of unknown age always pass.
func RecencyMatch(job model.Job, windowDays int, now time.Time) bool {
	age, ok := PostedAge(job, now)
	if !ok {
		return true
	}
	return age <= windowDays
}
