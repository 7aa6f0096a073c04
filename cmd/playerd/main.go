package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l1jgo/playerd/internal/config"
)

const defaultConfigPath = "config/playerd.toml"

var configPath string

var rootCmd = &cobra.Command{
	Use:          "playerd",
	Short:        "Player game server",
	Long:         `playerd hosts connected players: inventory, combat, progression, parties and VIP lists.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the TOML config (default $PLAYERD_CONFIG or "+defaultConfigPath+")")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig resolves the config path from the flag, then PLAYERD_CONFIG,
// then the default.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("PLAYERD_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
