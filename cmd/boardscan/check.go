package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/board"
	"github.com/amishk599/boardscan/internal/cache"
	"github.com/amishk599/boardscan/internal/model"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch each board once and report how many postings it returned",
	Long:  "One-shot probe: fetches every recognized board without the cache or any filtering and prints the raw count or error per board.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: cache bypassed")

	fetchers := make(map[model.Source]model.JobFetcher)
	for _, f := range buildFetchers(cfg, cache.NewNopStore(), logger) {
		fetchers[f.Source()] = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := 0
	for _, u := range cfg.Boards {
		if ctx.Err() != nil {
			break
		}
		ref := board.ParseReference(u)
		f, ok := fetchers[ref.Source]
		if !ok {
			fmt.Printf("%-25s %-12s unrecognized\n", u, ref.Source)
			continue
		}
		jobs, err := f.FetchJobs(ctx, model.FetchRequest{Identifier: ref.Slug})
		if err != nil {
			failed++
			fmt.Printf("%-25s %-12s error: %v\n", ref.Slug, ref.Source, err)
			continue
		}
		fmt.Printf("%-25s %-12s %d postings\n", ref.Slug, ref.Source, len(jobs))
	}

	logger.Info("check complete", "boards", len(cfg.Boards), "failed", failed)
	return nil
}
