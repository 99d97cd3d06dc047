package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docforge/studio/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "DocForge - node-graph contract template editor",
	Long: `DocForge serves a browser-based node-graph editor for assembling
contract templates.

It provides:
  - The editor page and its static assets
  - Graph load and save endpoints with pluggable persistence
  - Contract template generation through an OpenAI-compatible API`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file path (empty to skip)")
}
