package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/board"
	"github.com/amishk599/boardscan/internal/config"
	"github.com/amishk599/boardscan/internal/filter"
	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/pipeline"
	"github.com/amishk599/boardscan/internal/preset"
	"github.com/amishk599/boardscan/internal/results"
	"github.com/amishk599/boardscan/internal/secrets"
	"github.com/amishk599/boardscan/internal/tui"
)

var (
	scanPreset     string
	scanSort       string
	scanJSON       bool
	scanTUI        bool
	scanNotify     bool
	scanAggregator bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan and print the matches",
	Long: "Fetch every configured board (and SerpAPI when enabled), dedupe, filter by " +
		"keyword, location and recency, and print the matches with scan diagnostics.",
	RunE: runScan,
}

func init() {
	addScanFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

// addScanFlags is shared by the root command so a bare `boardscan` scans too.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&scanPreset, "preset", "p", "", "keyword preset to scan with (default: configured keywords)")
	cmd.Flags().StringVarP(&scanSort, "sort", "s", "recent", "result order: recent, company or title")
	cmd.Flags().BoolVar(&scanJSON, "json", false, "print the snapshot as JSON")
	cmd.Flags().BoolVar(&scanTUI, "tui", false, "pick a preset and browse results interactively")
	cmd.Flags().BoolVar(&scanNotify, "notify", false, "send matches through the configured notifier")
	cmd.Flags().BoolVar(&scanAggregator, "aggregator", false, "enable the SerpAPI aggregator for this run")
}

// runScan logs and returns its errors; cobra does not print them again.
func runScan(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	if scanTUI {
		var closeLog func()
		logger, closeLog = tuiLogger(debug)
		defer closeLog()
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}
	if scanAggregator {
		cfg.Aggregator.Enabled = true
	}

	order, err := results.ParseOrder(scanSort)
	if err != nil {
		logger.Error("invalid sort", "error", err)
		return err
	}

	presets := preset.NewSet(cfg.Presets)
	var chosen preset.Preset
	if scanPreset != "" {
		chosen, err = presets.Lookup(scanPreset)
		if err != nil {
			logger.Error("invalid preset", "error", err)
			return err
		}
	}

	scanCfg := cfg.ScanConfig(resolveAggregatorKey(cfg, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openCache(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		return err
	}
	defer store.Close()

	scanner := pipeline.NewScanner(logger, buildFetchers(cfg, store, logger)...)

	if scanTUI {
		if err := runInteractive(ctx, scanner, presets, chosen, scanCfg, order); err != nil {
			logger.Error("interactive session failed", "error", err)
			return err
		}
		return nil
	}

	snap := scanSnapshot(ctx, scanner, chosen, scanCfg)
	if ctx.Err() != nil {
		logger.Warn("scan interrupted, results are partial")
	}
	snap.Jobs = results.Sort(snap.Jobs, order, time.Now())

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			logger.Error("failed to encode results", "error", err)
			return err
		}
	} else {
		printSnapshot(snap, order, board.ClickOutLinks(presetKeywords(chosen, scanCfg), scanCfg.Locations))
	}

	if scanNotify && len(snap.Jobs) > 0 {
		n := setupNotifier(cfg, notifierHTTPClient(), logger)
		if err := n.Notify(snap.Jobs); err != nil {
			logger.Error("failed to notify", "error", err)
			return err
		}
	}
	return nil
}

// resolveAggregatorKey returns the SerpAPI key, or "" (skipping the
// aggregator) when none is configured or stored.
func resolveAggregatorKey(cfg *config.Config, logger *slog.Logger) string {
	if !cfg.Aggregator.Enabled {
		return ""
	}
	key, err := secrets.ResolveAPIKey(cfg.Aggregator.APIKey, cfg.Aggregator.KeyringAccount)
	if err != nil {
		logger.Warn("aggregator enabled but no api key found, skipping serpapi",
			"hint", "set aggregator.api_key or run `boardscan secret set`")
		return ""
	}
	return key
}

func presetKeywords(p preset.Preset, scanCfg model.ScanConfig) []string {
	if len(p.Keywords) > 0 {
		return p.Keywords
	}
	return scanCfg.Keywords
}

func presetLabel(p preset.Preset) string {
	if p.Name == "" {
		return "configured keywords"
	}
	return p.Name
}

func scanSnapshot(ctx context.Context, scanner *pipeline.Scanner, p preset.Preset, scanCfg model.ScanConfig) results.Snapshot {
	res := scanner.RunScan(ctx, p.Keywords, scanCfg)
	return results.Snapshot{
		ScanID:      res.ScanID,
		Preset:      presetLabel(p),
		ScannedAt:   time.Now().UTC(),
		RawTotal:    res.RawTotal,
		Diagnostics: res.Diagnostics,
		Jobs:        res.Jobs,
	}
}

// runInteractive loops picker -> loader -> browser until the user quits.
// A preset given on the command line skips the first picker.
func runInteractive(ctx context.Context, scanner *pipeline.Scanner, presets *preset.Set, current preset.Preset, scanCfg model.ScanConfig, order results.Order) error {
	holder := results.NewHolder()
	for {
		if current.Name == "" {
			p, ok, err := tui.RunPresetPicker(presets.All())
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			current = p
		}

		p := current
		snap, err := tui.RunScanLoader(ctx, "preset "+p.Name, func(ctx context.Context) results.Snapshot {
			return scanSnapshot(ctx, scanner, p, scanCfg)
		})
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		holder.Store(snap)

		action, err := tui.RunBrowser(holder, order, board.ClickOutLinks(p.Keywords, scanCfg.Locations))
		if err != nil {
			return err
		}
		switch action {
		case tui.ActionRescan:
			continue
		case tui.ActionPickPreset:
			current = preset.Preset{}
		default:
			return nil
		}
	}
}

// tuiLogger keeps log output off the terminal while the TUI owns it.
// With --debug, logs go to boardscan-debug.log in the working directory.
func tuiLogger(dbg bool) (*slog.Logger, func()) {
	if !dbg {
		return slog.New(slog.DiscardHandler), func() {}
	}
	f, err := os.OpenFile("boardscan-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.DiscardHandler), func() {}
	}
	return newLogger(f, true), func() { f.Close() }
}

func printSnapshot(snap results.Snapshot, order results.Order, links []board.Link) {
	now := time.Now()
	fmt.Printf("Matches (%d)  preset: %s  sorted by: %s\n", len(snap.Jobs), snap.Preset, order.Label())
	fmt.Println(strings.Repeat("─", 72))

	if len(snap.Jobs) == 0 {
		fmt.Println(tui.EmptyHint)
	}
	for i, j := range snap.Jobs {
		fmt.Printf("%3d. %s\n", i+1, j.Title)
		meta := []string{orDash(j.Company), orDash(j.Location), string(j.Source)}
		if age, ok := filter.PostedAge(j, now); ok {
			meta = append(meta, fmt.Sprintf("~%d days ago", age))
		}
		fmt.Printf("     %s\n", strings.Join(meta, " · "))
		if j.URL != "" {
			fmt.Printf("     %s\n", j.URL)
		}
	}

	d := snap.Diagnostics
	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("Scan %s\n", snap.ScanID)
	fmt.Printf("Boards scanned: %d   Unrecognized: %d\n", d.BoardsScanned, d.Unrecognized)
	fmt.Printf("Raw jobs pulled: %d   Unique: %d   Matches: %d\n", snap.RawTotal, d.Unique, len(snap.Jobs))
	fmt.Printf("By source: %s %d · %s %d · %s %d\n",
		model.SourceLever, d.Counts[model.SourceLever],
		model.SourceGreenhouse, d.Counts[model.SourceGreenhouse],
		model.SourceSerpAPI, d.Counts[model.SourceSerpAPI])
	for _, f := range d.Failures {
		fmt.Printf("  failed: %s %s: %s\n", f.Source, f.Identifier, f.Error)
	}
	fmt.Println(tui.LowRawTotalHint)

	if len(links) > 0 {
		fmt.Println()
		fmt.Println("Search elsewhere:")
		for _, l := range links {
			fmt.Printf("  %-45s %s\n", l.Keyword+" · "+l.Location, l.URL)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
