package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache subcommands",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired entries from the sqlite cache",
	RunE:  runCachePurge,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Cache.Backend != "sqlite" {
		fmt.Printf("cache backend is %q, nothing to purge\n", cfg.Cache.Backend)
		return nil
	}

	store, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	n, err := store.Purge(context.Background())
	if err != nil {
		logger.Error("purge failed", "error", err)
		os.Exit(1)
	}
	logger.Info("cache purged", "removed", n)
	return nil
}
