// Package main provides the resume_builder command line: an interactive wizard,
// one-shot validate/preview/export commands, and a local preview server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	driverFlag string
)

var rootCmd = &cobra.Command{
	Use:           "resume_builder",
	Short:         "Build a resume step by step",
	Long:          "resume_builder walks through a six-step resume wizard with live preview, saves progress automatically, and exports paginated text, LaTeX, HTML or PDF.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")
	rootCmd.PersistentFlags().StringVar(&driverFlag, "storage", "", "Snapshot storage driver (memory, file, sqlite, postgres, redis, minio)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
