package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/boardscan/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the SerpAPI key in the OS keyring",
}

var secretSetCmd = &cobra.Command{
	Use:   "set [api-key]",
	Short: "Store the SerpAPI key",
	Long:  "Stores the SerpAPI key in the OS keyring. Reads it from stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSecretSet,
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored SerpAPI key",
	RunE:  runSecretDelete,
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretDeleteCmd)
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		fmt.Fprint(os.Stderr, "SerpAPI key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logger.Error("failed to read key", "error", err)
			os.Exit(1)
		}
		key = line
	}
	key = strings.TrimSpace(key)
	if key == "" {
		logger.Error("empty key")
		os.Exit(1)
	}

	if err := secrets.SetAPIKey(cfg.Aggregator.KeyringAccount, key); err != nil {
		logger.Error("failed to store key", "error", err)
		os.Exit(1)
	}
	logger.Info("serpapi key stored in keyring")
	return nil
}

func runSecretDelete(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := secrets.DeleteAPIKey(cfg.Aggregator.KeyringAccount); err != nil {
		logger.Error("failed to delete key", "error", err)
		os.Exit(1)
	}
	logger.Info("serpapi key removed from keyring")
	return nil
}
