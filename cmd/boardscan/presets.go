package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/preset"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List keyword presets",
	Long:  "Prints the built-in presets plus any presets defined in the config.",
	RunE:  runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	for _, p := range preset.NewSet(cfg.Presets).All() {
		fmt.Printf("%s (%s)\n", p.Name, p.Description)
		fmt.Printf("  %s\n", strings.Join(p.Keywords, ", "))
	}
	return nil
}
