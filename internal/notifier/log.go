package notifier

import (
	"log/slog"

	"github.com/amishk599/boardscan/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes scan matches to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs one line per job followed by a summary.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.Job) error {
	for _, j := range jobs {
		args := []any{"source", j.Source, "company", j.Company, "title", j.Title, "location", j.Location, "url", j.URL}
		if j.PostedAt != "" {
			args = append(args, "posted_at", j.PostedAt)
		}
		n.logger.Info("match", args...)
	}
	n.logger.Info("scan matches", "count", len(jobs))
	return nil
}
