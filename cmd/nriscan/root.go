// Package main provides the entry point for the nriscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nriscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nriscan",
		Short: "Stealth crawler and article extractor for NRI NOW",
		Long: `nriscan crawls the NRI NOW news site (nrinow.news) through a real
Chrome browser, extracts structured article data (text, author, date,
images, comments), and writes reports in text, JSON, CSV, or Markdown.

The site sits behind an anti-bot layer, so the crawler paces itself like
a human reader. Expect a run to take seconds per article; lowering the
delays is counterproductive.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewPostsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
