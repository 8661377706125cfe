package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/adapter"
	"github.com/amishk599/boardscan/internal/cache"
	"github.com/amishk599/boardscan/internal/config"
	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/notifier"
	"github.com/amishk599/boardscan/internal/ratelimit"
	"github.com/amishk599/boardscan/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "boardscan",
	Short: "Scan public job boards for QA and test roles",
	Long: "boardscan pulls postings from Lever and Greenhouse boards and, optionally, " +
		"SerpAPI's Google Jobs search, then dedupes and filters them by keyword, location and recency.",
	// Running the bare binary performs a scan with the configured keywords.
	RunE:          runScan,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: "+config.EnvPath+" env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addScanFlags(rootCmd)
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > BOARDSCAN_CONFIG env var > "./config.yaml".
// Without an explicit path a missing file means built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	resolved, explicit := config.ResolvePath(path)
	return config.LoadOrDefault(resolved, explicit)
}

// setupLogger logs to stderr so command output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stderr, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// openCache opens the configured snapshot store.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNopStore(), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.Cache.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating cache dir: %w", err)
			}
		}
		return cache.NewSQLiteStore(cfg.Cache.SQLitePath)
	case "redis":
		return cache.NewRedisStore(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, logger), nil
	default:
		return cache.NewMemoryStore(), nil
	}
}

// buildFetchers creates one fetcher per provider, each wrapped as
// cache(rate limit(retry(adapter))). A cache hit never waits on the limiter.
func buildFetchers(cfg *config.Config, store cache.Store, logger *slog.Logger) []model.JobFetcher {
	httpClient := &http.Client{}
	boardOpts := adapter.Options{UserAgent: cfg.HTTP.UserAgent, Timeout: cfg.HTTP.BoardTimeout}
	aggOpts := adapter.Options{UserAgent: cfg.HTTP.UserAgent, Timeout: cfg.HTTP.AggregatorTimeout}

	// Shared provider-level limiter.
	limiter := ratelimit.NewProviderLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.ProviderOverrides)

	base := []model.JobFetcher{
		adapter.NewLeverAdapter(httpClient, boardOpts),
		adapter.NewGreenhouseAdapter(httpClient, boardOpts),
		adapter.NewSerpAPIAdapter(httpClient, aggOpts),
	}

	fetchers := make([]model.JobFetcher, 0, len(base))
	for _, f := range base {
		logger.Debug("rate limiter configured", "source", f.Source(), "min_delay", cfg.RateLimit.MinDelayFor(f.Source()).String())
		var wrapped model.JobFetcher = retry.NewRetryFetcher(f, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
		wrapped = ratelimit.NewRateLimitedFetcher(wrapped, limiter)
		wrapped = cache.NewCachedFetcher(wrapped, store, cfg.Cache.TTL, logger)
		fetchers = append(fetchers, wrapped)
	}
	return fetchers
}

func notifierHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
