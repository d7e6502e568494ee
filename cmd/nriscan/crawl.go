package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nriscan/nriscan/internal/browser"
	"github.com/nriscan/nriscan/internal/config"
	"github.com/nriscan/nriscan/internal/crawler"
	"github.com/nriscan/nriscan/internal/database"
	"github.com/nriscan/nriscan/internal/extract"
	"github.com/nriscan/nriscan/internal/log"
	"github.com/nriscan/nriscan/internal/model"
	"github.com/nriscan/nriscan/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl articles through a real Chrome browser",
		Long: `Crawl discovers article URLs from the site's listing or search pages,
fetches each one through a stealth-configured Chrome session, and
extracts structured content (text, author, date, images, comments).

Without --search, the newest articles from the site listing are crawled.
With --search, the site's keyword search drives discovery and each record
carries its search context (rank, pages searched). With --url, discovery
is skipped entirely and the single given article is fetched.

Examples:
  # Crawl the 5 newest articles
  nriscan crawl

  # Search for a keyword, crawl the top 10 hits
  nriscan crawl --search "school committee" --max-articles 10

  # Fetch one known article and print JSON
  nriscan crawl --url https://www.nrinow.news/2026/08/12/example/ --json

  # Run with a visible browser window and verbose logging
  nriscan crawl --browser visible -v`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Target flags
	cmd.Flags().StringP("search", "s", "", "Search keyword (empty means listing mode)")
	cmd.Flags().StringP("url", "u", "", "Single article URL to fetch (skips discovery)")

	// Browser flags
	cmd.Flags().StringP("browser", "b", config.ModeMinimized,
		"Browser mode: visible, minimized, or headless")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Page-load timeout for each request")

	// Budget flags
	cmd.Flags().IntP("max-articles", "n", config.DefaultMaxArticles,
		"Maximum number of articles to fetch")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of search result pages to consult")

	// Pacing flags
	cmd.Flags().Duration("page-delay", config.DefaultPageDelayMin,
		"Minimum pause between discovery page fetches")
	cmd.Flags().Duration("article-delay", config.DefaultArticleDelayMin,
		"Minimum pause between article fetches")
	cmd.Flags().IntP("retries", "r", config.DefaultRetryAttempts,
		"Retry cap for transient fetch failures")

	// Site profile
	cmd.Flags().StringP("profile", "c", "",
		"Site profile file path (default: nriscan.yaml in config dir)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false, "Output JSON report")
	cmd.Flags().Bool("csv", false, "Output CSV report")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence
	cmd.Flags().Bool("no-db", false, "Skip persisting records to the crawl database")
	cmd.Flags().Bool("refetch", false, "Fetch articles even if earlier runs already captured them")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals. The crawler stops at the next article
	// boundary, so collected records survive a Ctrl-C.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCrawlConfig creates a Config from cobra command flags.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Keyword, err = cmd.Flags().GetString("search")
	if err != nil {
		return nil, err
	}

	cfg.ArticleURL, err = cmd.Flags().GetString("url")
	if err != nil {
		return nil, err
	}

	cfg.Mode, err = cmd.Flags().GetString("browser")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxArticles, err = cmd.Flags().GetInt("max-articles")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.PageDelayMin, err = cmd.Flags().GetDuration("page-delay")
	if err != nil {
		return nil, err
	}

	cfg.ArticleDelayMin, err = cmd.Flags().GetDuration("article-delay")
	if err != nil {
		return nil, err
	}

	cfg.RetryAttempts, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.ProfilePath, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	// Load the site profile and overlay it on the built-in defaults.
	// If the user explicitly specified a profile path, error if missing.
	explicitProfile := cfg.ProfilePath != ""
	profilePath := config.FindProfileFile(cfg.ProfilePath)
	if profilePath != "" {
		override, err := config.LoadProfile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %s: %w", profilePath, err)
		}
		cfg.Profile = cfg.Profile.Merge(override)
	} else if explicitProfile {
		return nil, fmt.Errorf("site profile not found: %s", cfg.ProfilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.Refetch, err = cmd.Flags().GetBool("refetch")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	mode, err := browser.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	var db *database.CrawlDB
	var seen map[string]bool
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)

		if !cfg.Refetch {
			seen, err = db.SeenURLs(ctx)
			if err != nil {
				return fmt.Errorf("failed to load seen urls: %w", err)
			}
			logger.Info("loaded seen set", "urls", len(seen))
		}
	}

	logger.Info("starting crawl",
		"mode", cfg.Mode,
		"keyword", cfg.Keyword,
		"url", cfg.ArticleURL,
		"maxArticles", cfg.MaxArticles,
	)

	session, err := browser.Open(ctx, mode,
		browser.WithEvasion(cfg.Profile.Evasion),
		browser.WithTimeout(cfg.Timeout),
		browser.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to open browser session: %w", err)
	}

	c := crawler.New(session, cfg.BaseURL,
		crawler.WithExtractor(extract.NewExtractor(
			extract.WithSelectors(cfg.Profile.Selectors),
			extract.WithLogger(logger),
		)),
		crawler.WithSelectors(cfg.Profile.Selectors),
		crawler.WithChallengeSignatures(cfg.Profile.ChallengeSignatures),
		crawler.WithRetryPolicy(crawler.RetryPolicy{
			MaxAttempts: cfg.RetryAttempts,
			BackoffBase: crawler.DefaultRetryPolicy().BackoffBase,
		}),
		crawler.WithDelays(cfg.PageDelayMin, cfg.ArticleDelayMin),
		crawler.WithSeenURLs(seen),
		crawler.WithLogger(logger),
	)

	crawlReport, runErr := executeCrawl(ctx, c, cfg)
	if runErr != nil && len(crawlReport.Records) == 0 {
		return runErr
	}

	if err := outputReport(cfg, crawlReport); err != nil {
		logger.Error("report failed", "error", err)
	}

	if err := saveCrawl(ctx, db, crawlReport, logger); err != nil {
		logger.Error("failed to save crawl results", "error", err)
	}

	return nil
}

// executeCrawl runs the crawler in the configured mode and assembles the
// report. Partial failures are recorded on the report, not returned.
func executeCrawl(ctx context.Context, c *crawler.Crawler, cfg *config.Config) (*model.CrawlReport, error) {
	mode := model.ModeListing
	if cfg.Keyword != "" {
		mode = model.ModeSearch
	}
	crawlReport := model.NewCrawlReport(cfg.BaseURL, mode, cfg.Keyword)
	defer crawlReport.Finish()

	if cfg.ArticleURL != "" {
		rec, err := c.ScrapeOne(ctx, cfg.ArticleURL)
		if err != nil {
			return crawlReport, err
		}
		crawlReport.Records = append(crawlReport.Records, rec)
		return crawlReport, nil
	}

	budget := &model.CrawlBudget{
		MaxArticles: cfg.MaxArticles,
		MaxPages:    cfg.MaxPages,
	}

	records, err := c.Run(ctx, cfg.Keyword, budget)
	crawlReport.Records = append(crawlReport.Records, records...)
	crawlReport.PagesSearched = budget.Pages
	if err != nil {
		crawlReport.Error = err.Error()
	}
	return crawlReport, err
}

// outputReport outputs the crawl report in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.CSVReport:
		w = report.NewCSVWriter(output)
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(true))
	}

	_, err := w.Write(crawlReport)
	return err
}

// saveCrawl persists records, the seen set, and the run summary.
// If db is nil, this function is a no-op.
func saveCrawl(ctx context.Context, db *database.CrawlDB, crawlReport *model.CrawlReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	for _, rec := range crawlReport.Records {
		if err := db.SaveRecord(ctx, rec); err != nil {
			return err
		}
		if rec.Success {
			if err := db.MarkSeen(ctx, model.NormalizeURL(rec.URL)); err != nil {
				return err
			}
		}
	}

	run := &database.RunSummary{
		Mode:      string(crawlReport.Mode),
		Keyword:   crawlReport.Keyword,
		Records:   len(crawlReport.Records),
		Failures:  crawlReport.Failed(),
		Pages:     crawlReport.PagesSearched,
		StartedAt: crawlReport.StartedAt,
	}
	if err := db.SaveRun(ctx, run); err != nil {
		return err
	}

	logger.Info("crawl results saved",
		"records", len(crawlReport.Records),
		"failures", crawlReport.Failed(),
	)
	return nil
}
