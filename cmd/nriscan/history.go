package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nriscan/nriscan/internal/config"
	"github.com/nriscan/nriscan/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past crawl runs and stored articles",
		Long: `History lists past crawl runs and the articles stored in the crawl
database. Records persist across runs; a crawl skips articles it has
already captured unless run with --no-db.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 10, "Maximum number of runs to show")
	cmd.Flags().Bool("articles", false, "List stored articles instead of runs")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showArticles, err := cmd.Flags().GetBool("articles")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no crawl database yet (run a crawl first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if showArticles {
		records, err := db.ListRecords(ctx, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No articles stored.")
			return nil
		}
		for _, rec := range records {
			status := "ok"
			if !rec.Success {
				status = "failed"
			}
			fmt.Fprintf(out, "[%s] %s\n", status, rec.URL)
			if rec.Title != "" {
				fmt.Fprintf(out, "       %s", rec.Title)
				if rec.Author != "" {
					fmt.Fprintf(out, " (by %s)", rec.Author)
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	}

	runs, err := db.RunHistory(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		target := run.Mode
		if run.Keyword != "" {
			target = fmt.Sprintf("%s %q", run.Mode, run.Keyword)
		}
		fmt.Fprintf(out, "%s  %-24s %d records (%d failed), %d pages\n",
			run.FinishedAt.Format("2006-01-02 15:04"),
			target,
			run.Records,
			run.Failures,
			run.Pages,
		)
	}
	return nil
}
