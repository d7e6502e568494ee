package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nriscan/nriscan/internal/config"
	"github.com/nriscan/nriscan/internal/log"
	"github.com/nriscan/nriscan/internal/model"
	"github.com/nriscan/nriscan/internal/wordpress"
)

// NewPostsCmd creates the posts command.
func NewPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Fetch articles through the WordPress REST API",
		Long: `Posts fetches published articles through the site's WordPress REST API
(/wp-json/wp/v2/posts) instead of a browser. The API serves rendered
HTML, which is converted to Markdown in the records.

This path is much faster than the browser crawl but only works while the
API endpoint stays publicly reachable; the browser path is the fallback
when it does not.

Examples:
  # Fetch the 20 newest posts as JSON
  nriscan posts --max-posts 20 --json

  # Posts published after a date
  nriscan posts --after 2026-01-01 --max-posts 50

  # Filter by category IDs
  nriscan posts --categories 12,34 --markdown -o posts.md`,
		Args: cobra.NoArgs,
		RunE: runPostsCmd,
	}

	cmd.Flags().Int("max-posts", 20, "Maximum number of posts to fetch")
	cmd.Flags().String("after", "", "Only posts published after this date (YYYY-MM-DD)")
	cmd.Flags().String("before", "", "Only posts published before this date (YYYY-MM-DD)")
	cmd.Flags().IntSlice("categories", nil, "Category IDs to filter by")
	cmd.Flags().IntSlice("tags", nil, "Tag IDs to filter by")

	cmd.Flags().BoolP("json", "j", false, "Output JSON report")
	cmd.Flags().Bool("csv", false, "Output CSV report")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runPostsCmd executes the posts command.
func runPostsCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	maxPosts, err := cmd.Flags().GetInt("max-posts")
	if err != nil {
		return err
	}
	if maxPosts <= 0 {
		return fmt.Errorf("invalid max posts %d: must be positive", maxPosts)
	}

	query, err := buildPostQuery(cmd)
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runPosts(ctx, cfg, query, maxPosts, logger)
}

// buildPostQuery assembles the API query from flags.
func buildPostQuery(cmd *cobra.Command) (wordpress.PostQuery, error) {
	var q wordpress.PostQuery
	var err error

	after, err := cmd.Flags().GetString("after")
	if err != nil {
		return q, err
	}
	if after != "" {
		t, err := time.Parse("2006-01-02", after)
		if err != nil {
			return q, fmt.Errorf("invalid --after date %q: %w", after, err)
		}
		q.After = t.Format("2006-01-02T15:04:05")
	}

	before, err := cmd.Flags().GetString("before")
	if err != nil {
		return q, err
	}
	if before != "" {
		t, err := time.Parse("2006-01-02", before)
		if err != nil {
			return q, fmt.Errorf("invalid --before date %q: %w", before, err)
		}
		q.Before = t.Format("2006-01-02T15:04:05")
	}

	q.Categories, err = cmd.Flags().GetIntSlice("categories")
	if err != nil {
		return q, err
	}

	q.Tags, err = cmd.Flags().GetIntSlice("tags")
	if err != nil {
		return q, err
	}

	return q, nil
}

// runPosts fetches posts through the API and writes the report.
func runPosts(ctx context.Context, cfg *config.Config, q wordpress.PostQuery, maxPosts int, logger *slog.Logger) error {
	client := wordpress.NewClient(cfg.BaseURL, wordpress.WithClientLogger(logger))

	logger.Info("fetching posts", "maxPosts", maxPosts)

	posts, err := client.AllPosts(ctx, q, maxPosts)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	converter := wordpress.NewConverter()
	records, err := converter.Records(ctx, posts)
	if err != nil {
		return fmt.Errorf("failed to convert posts: %w", err)
	}

	crawlReport := model.NewCrawlReport(cfg.BaseURL, model.ModeAPI, "")
	crawlReport.Records = records
	crawlReport.Finish()

	return outputReport(cfg, crawlReport)
}
