package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/board"
	"github.com/amishk599/boardscan/internal/preset"
)

var linksPreset string

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print LinkedIn search links for a preset",
	Long:  "Builds click-out LinkedIn job searches for each preset keyword and the first two configured locations. Nothing is fetched.",
	RunE:  runLinks,
}

func init() {
	linksCmd.Flags().StringVarP(&linksPreset, "preset", "p", preset.QA, "keyword preset")
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	p, err := preset.NewSet(cfg.Presets).Lookup(linksPreset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	for _, l := range board.ClickOutLinks(p.Keywords, cfg.Locations) {
		fmt.Printf("%-45s %s\n", l.Keyword+" · "+l.Location, l.URL)
	}
	return nil
}
