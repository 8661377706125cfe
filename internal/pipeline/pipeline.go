// Package pipeline runs one scan: fetch every configured board and the
// optional aggregator, dedupe, then keep what matches the search criteria.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/boardscan/internal/board"
	"github.com/amishk599/boardscan/internal/dedupe"
	"github.com/amishk599/boardscan/internal/filter"
	"github.com/amishk599/boardscan/internal/model"
)

// Result is the outcome of one scan.
type Result struct {
	ScanID      string
	Jobs        []model.Job
	Diagnostics model.Diagnostics
	RawTotal    int
}

// Scanner owns the fetchers for every provider and runs scans against them.
type Scanner struct {
	fetchers map[model.Source]model.JobFetcher
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewScanner creates a scanner. Each fetcher is registered under its own
// Source; a provider with no fetcher contributes nothing.
func NewScanner(logger *slog.Logger, fetchers ...model.JobFetcher) *Scanner {
	m := make(map[model.Source]model.JobFetcher, len(fetchers))
	for _, f := range fetchers {
		m[f.Source()] = f
	}
	return &Scanner{
		fetchers: m,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// WithClock replaces the clock used for recency matching.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// AggregatorQuery joins the quoted preset phrases with OR.
func AggregatorQuery(preset []string) string {
	quoted := make([]string, 0, len(preset))
	for _, k := range preset {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		quoted = append(quoted, `"`+k+`"`)
	}
	return strings.Join(quoted, " OR ")
}

// RunScan fetches, dedupes and filters jobs for the given preset. Fetch
// failures never abort the scan: they contribute zero jobs and are recorded
// in the diagnostics. A cancelled context stops further fetches and the jobs
// gathered so far are still matched.
func (s *Scanner) RunScan(ctx context.Context, preset []string, cfg model.ScanConfig) Result {
	if len(preset) == 0 {
		preset = cfg.Keywords
	}
	scanID := s.newID()
	logger := s.logger.With("scan_id", scanID)
	started := time.Now()

	diag := model.NewDiagnostics()
	diag.BoardsScanned = len(cfg.BoardURLs)

	var all []model.Job
	for _, rawURL := range cfg.BoardURLs {
		if ctx.Err() != nil {
			logger.Warn("scan cancelled, skipping remaining boards", "error", ctx.Err())
			break
		}

		ref := board.ParseReference(rawURL)
		if ref.Source == model.SourceUnknown {
			diag.Unrecognized++
			logger.Debug("unrecognized board url", "url", rawURL)
			continue
		}

		jobs := s.fetch(ctx, logger, &diag, ref.Source, model.FetchRequest{Identifier: ref.Slug})
		diag.Counts[ref.Source] += len(jobs)
		all = append(all, jobs...)
	}

	if cfg.UseAggregator && cfg.AggregatorKey != "" && ctx.Err() == nil {
		req := model.FetchRequest{
			Identifier: AggregatorQuery(preset),
			Location:   cfg.AggregatorLocation,
			Credential: cfg.AggregatorKey,
		}
		jobs := s.fetch(ctx, logger, &diag, model.SourceSerpAPI, req)
		diag.Counts[model.SourceSerpAPI] += len(jobs)
		all = append(all, jobs...)
	}

	rawTotal := len(all)
	diag.RawTotal = rawTotal

	unique := dedupe.Dedupe(all)
	diag.Unique = len(unique)

	keywords := make([]string, 0, len(preset)+len(cfg.TechBoosters))
	keywords = append(keywords, preset...)
	keywords = append(keywords, cfg.TechBoosters...)
	matcher := filter.NewMatcher(keywords, cfg.Locations, cfg.RemoteOK, cfg.RecencyWindowDays).WithClock(s.now)

	matched := make([]model.Job, 0, len(unique))
	for _, job := range unique {
		if matcher.Match(job) {
			matched = append(matched, job)
		}
	}

	logger.Info("scan complete",
		"boards", diag.BoardsScanned,
		"unrecognized", diag.Unrecognized,
		"raw", rawTotal,
		"unique", diag.Unique,
		"matched", len(matched),
		"failures", len(diag.Failures),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	return Result{
		ScanID:      scanID,
		Jobs:        matched,
		Diagnostics: diag,
		RawTotal:    rawTotal,
	}
}

// fetch calls the provider's fetcher and converts a failure into an empty
// contribution plus a diagnostics entry.
func (s *Scanner) fetch(ctx context.Context, logger *slog.Logger, diag *model.Diagnostics, source model.Source, req model.FetchRequest) []model.Job {
	f, ok := s.fetchers[source]
	if !ok {
		logger.Warn("no fetcher registered", "source", source)
		return nil
	}

	jobs, err := f.FetchJobs(ctx, req)
	if err != nil {
		ident := req.Identifier
		logger.Warn("fetch failed", "source", source, "identifier", ident, "error", err)
		diag.Failures = append(diag.Failures, model.FetchFailure{
			Source:     source,
			Identifier: ident,
			Error:      err.Error(),
		})
		return nil
	}

	logger.Debug("fetched", "source", source, "identifier", req.Identifier, "jobs", len(jobs))
	return jobs
}
