package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/board"
	"github.com/amishk599/boardscan/internal/model"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List all configured boards",
	Long:  "Reads the config and prints a table of every board URL with the provider it resolves to.",
	RunE:  runBoards,
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}

func runBoards(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-25s %-12s %s\n", "Board", "Provider", "URL")
	fmt.Println(strings.Repeat("─", 72))

	recognized, unrecognized := 0, 0
	for _, u := range cfg.Boards {
		ref := board.ParseReference(u)
		slug := ref.Slug
		if ref.Source == model.SourceUnknown {
			unrecognized++
			slug = "-"
		} else {
			recognized++
		}
		fmt.Printf("%-25s %-12s %s\n", slug, ref.Source, u)
	}

	fmt.Printf("\nTotal: %d boards (%d recognized, %d unrecognized)\n", len(cfg.Boards), recognized, unrecognized)
	return nil
}
