// Package results keeps the last completed scan and orders it for display.
package results

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amishk599/boardscan/internal/filter"
	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/textutil"
)

// Snapshot is one completed scan as shown to the user.
type Snapshot struct {
	ScanID      string            `json:"scan_id"`
	Preset      string            `json:"preset"`
	ScannedAt   time.Time         `json:"scanned_at"`
	RawTotal    int               `json:"raw_total"`
	Diagnostics model.Diagnostics `json:"diagnostics"`
	Jobs        []model.Job       `json:"jobs"`
}

// Holder keeps the most recent successful scan so views can be redrawn
// (for example after a sort change) without fetching again.
type Holder struct {
	mu   sync.RWMutex
	last *Snapshot
}

func NewHolder() *Holder { return &Holder{} }

// Store replaces the held snapshot.
func (h *Holder) Store(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = &s
}

// Last returns the held snapshot, or ok == false before the first scan.
func (h *Holder) Last() (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.last == nil {
		return Snapshot{}, false
	}
	return *h.last, true
}

// Order is a display ordering of matched jobs.
type Order string

const (
	OrderRecent  Order = "recent"
	OrderCompany Order = "company"
	OrderTitle   Order = "title"
)

// Orders lists every ordering in the order the UI cycles through them.
var Orders = []Order{OrderRecent, OrderCompany, OrderTitle}

// unknownAge sorts jobs without a usable date after every dated job.
const unknownAge = 9999

// ParseOrder maps a user-supplied name to an Order. Empty means recent.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderRecent:
		return OrderRecent, nil
	case OrderCompany:
		return OrderCompany, nil
	case OrderTitle:
		return OrderTitle, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want recent, company or title)", s)
}

// Next returns the ordering after o, wrapping around.
func (o Order) Next() Order {
	for i, v := range Orders {
		if v == o {
			return Orders[(i+1)%len(Orders)]
		}
	}
	return OrderRecent
}

// Label is the human-readable name of the ordering.
func (o Order) Label() string {
	switch o {
	case OrderCompany:
		return "Company A-Z"
	case OrderTitle:
		return "Title A-Z"
	default:
		return "Most recent (if known)"
	}
}

// Sort returns a copy of jobs in the given order. Ties keep their scan order.
func Sort(jobs []model.Job, order Order, now time.Time) []model.Job {
	out := make([]model.Job, len(jobs))
	copy(out, jobs)

	switch order {
	case OrderCompany:
		sortByText(out, func(j model.Job) string { return j.Company })
	case OrderTitle:
		sortByText(out, func(j model.Job) string { return j.Title })
	default:
		ages := make([]int, len(out))
		for i, j := range out {
			ages[i] = AgeOrUnknown(j, now)
		}
		idx := make([]int, len(out))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return ages[idx[a]] < ages[idx[b]] })
		sorted := make([]model.Job, len(out))
		for i, k := range idx {
			sorted[i] = out[k]
		}
		out = sorted
	}
	return out
}

// AgeOrUnknown returns the job's age in days, or 9999 when it has no
// parseable date.
func AgeOrUnknown(job model.Job, now time.Time) int {
	if age, ok := filter.PostedAge(job, now); ok {
		return age
	}
	return unknownAge
}

func sortByText(jobs []model.Job, field func(model.Job) string) {
	sort.SliceStable(jobs, func(a, b int) bool {
		return textutil.Normalize(field(jobs[a])) < textutil.Normalize(field(jobs[b]))
	})
}
