package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quickai/server/internal/infra/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "quickai",
	Short: "QuickAI API server",
	Long: `QuickAI serves text, image and resume review generation behind a
free-tier quota and a premium plan gate.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default searches ./config.yaml)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
