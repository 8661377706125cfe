package cache

import (
	"context"
	"time"

	"github.com/amishk599/boardscan/internal/model"
)

// DefaultTTL is how long a provider snapshot stays fresh.
const DefaultTTL = 30 * time.Minute

// Store keeps provider snapshots keyed by fetch identity.
type Store interface {
	// Get returns the cached jobs for key. ok is false on a miss or when the
	// entry has expired.
	Get(ctx context.Context, key string) (jobs []model.Job, ok bool, err error)
	Set(ctx context.Context, key string, jobs []model.Job, ttl time.Duration) error
	Close() error
}

func cloneJobs(jobs []model.Job) []model.Job {
	if jobs == nil {
		return nil
	}
	out := make([]model.Job, len(jobs))
	for i, j := range jobs {
		j.Tags = append([]string(nil), j.Tags...)
		if j.Tags == nil {
			j.Tags = []string{}
		}
		out[i] = j
	}
	return out
}
