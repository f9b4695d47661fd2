// Package cmd contains the CLI commands of the tool, built with Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"labscope/pkg/config"
	"labscope/pkg/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "labscope",
	Short: "GitLab repository analysis and issue export",
	Long: `labscope collects commit statistics across Git repositories hosted on a
GitLab instance, producing per-author contribution reports consolidated by
email address, and exports recent open issues as Markdown, CSV or
Jira-importable CSV.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger.Init(cfg.LogLevel)
		return nil
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
