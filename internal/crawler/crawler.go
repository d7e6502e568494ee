package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nriscan/nriscan/internal/config"
	"github.com/nriscan/nriscan/internal/discover"
	"github.com/nriscan/nriscan/internal/extract"
	"github.com/nriscan/nriscan/internal/model"
)

// contentWaitTimeout bounds the DOM poll for the article container after
// navigation. Expiry is not fatal; extraction runs on whatever rendered.
const contentWaitTimeout = 10 * time.Second

// Browser is the navigation surface the orchestrator drives. Satisfied by
// *browser.Session; tests substitute a scripted fake so runs execute
// without Chrome.
type Browser interface {
	// Navigate loads a URL, including the human-like settle pause.
	Navigate(ctx context.Context, url string) error

	// WaitReady polls for a selector, false on timeout.
	WaitReady(ctx context.Context, selector string, timeout time.Duration) bool

	// SimulateReading injects randomized scroll and mouse interaction.
	SimulateReading(ctx context.Context) error

	// HTML returns the rendered DOM.
	HTML(ctx context.Context) (string, error)

	// Close releases the browser.
	Close()
}

// Crawler coordinates discovery, fetching, and extraction for one run.
//
// Design decision: The orchestrator takes an already-open Browser rather
// than opening one itself because:
//  1. Session setup failure is fatal before any crawl state exists, so
//     the caller handles it without involving the orchestrator
//  2. The session's mode and evasion profile are launch-time concerns
//  3. Tests can hand in a fake and exercise every crawl path headlessly
type Crawler struct {
	// browser is the single session, owned exclusively for the run and
	// driven strictly sequentially.
	browser Browser

	// extractor parses fetched article pages.
	extractor *extract.Extractor

	// engine discovers candidate URLs through the pacing fetcher below.
	engine *discover.Engine

	// retry is the backoff policy for transient fetch failures.
	retry RetryPolicy

	// signatures identify challenge pages by content.
	signatures []string

	// waitSelector is the DOM condition polled after each navigation.
	waitSelector string

	// pageDelayMin and articleDelayMin are the mandatory lower bounds
	// between discovery-page and article fetches. Lower bounds hold even
	// under retries.
	pageDelayMin    time.Duration
	articleDelayMin time.Duration

	// lastPageFetch and lastArticleFetch anchor the delay floors.
	lastPageFetch    time.Time
	lastArticleFetch time.Time

	// selectors are handed to the default discovery engine.
	selectors config.Selectors

	// seen holds normalized URLs captured by earlier runs; matching
	// candidates are skipped without spending budget or requests.
	seen map[string]bool

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithExtractor sets the article extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(c *Crawler) {
		c.extractor = e
	}
}

// WithRetryPolicy sets the retry/backoff policy for transient failures.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Crawler) {
		c.retry = p
	}
}

// WithChallengeSignatures sets the content signatures that mark a
// challenge page.
func WithChallengeSignatures(sigs []string) Option {
	return func(c *Crawler) {
		c.signatures = sigs
	}
}

// WithDelays sets the mandatory minimum pauses between discovery-page
// fetches and between article fetches.
func WithDelays(page, article time.Duration) Option {
	return func(c *Crawler) {
		c.pageDelayMin = page
		c.articleDelayMin = article
	}
}

// WithSeenURLs sets the normalized URLs captured by earlier runs.
// Run skips matching candidates, so crawls resume where they left off;
// ScrapeOne ignores the set because an explicit URL is an explicit ask.
func WithSeenURLs(seen map[string]bool) Option {
	return func(c *Crawler) {
		c.seen = seen
	}
}

// WithSelectors sets the site selectors used by the default discovery
// engine. Ignored when WithEngine supplies a custom engine.
func WithSelectors(s config.Selectors) Option {
	return func(c *Crawler) {
		c.selectors = s
	}
}

// WithWaitSelector sets the DOM condition polled after navigation.
func WithWaitSelector(sel string) Option {
	return func(c *Crawler) {
		c.waitSelector = sel
	}
}

// WithLogger sets a custom logger for the crawler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithEngine overrides the discovery engine. Mostly a test hook; the
// default engine is built over the crawler's own paced fetcher.
func WithEngine(e *discover.Engine) Option {
	return func(c *Crawler) {
		c.engine = e
	}
}

// New creates a crawl orchestrator over an open browser session.
func New(b Browser, baseURL string, opts ...Option) *Crawler {
	c := &Crawler{
		browser:         b,
		extractor:       extract.NewExtractor(),
		retry:           DefaultRetryPolicy(),
		signatures:      config.DefaultProfile().ChallengeSignatures,
		waitSelector:    "body",
		pageDelayMin:    config.DefaultPageDelayMin,
		articleDelayMin: config.DefaultArticleDelayMin,
		selectors:       config.DefaultProfile().Selectors,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = discover.NewEngine(
			&pageFetcher{crawler: c},
			discover.WithBaseURL(baseURL),
			discover.WithSelectors(c.selectors),
			discover.WithLogger(c.logger),
		)
	}
	return c
}

// Run executes a full crawl: discovery in the given mode, then one
// fetch+extract per candidate up to the budget. The browser session is
// always closed on the way out.
//
// A discovery failure past the retry cap does not abort the run: the
// candidates collected before the failure are still fetched, and the
// discovery error is returned alongside the records so the caller knows
// the sequence is partial.
func (c *Crawler) Run(ctx context.Context, keyword string, budget *model.CrawlBudget) ([]*model.ArticleRecord, error) {
	defer c.browser.Close()

	var (
		candidates []model.CandidateURL
		discErr    error
	)
	if keyword != "" {
		candidates, discErr = c.engine.Search(ctx, keyword, budget)
	} else {
		candidates, discErr = c.engine.Listing(ctx, budget)
	}
	if discErr != nil {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("discovery produced no candidates: %w", discErr)
		}
		c.logger.Warn("continuing with partial discovery",
			"candidates", len(candidates),
			"error", discErr,
		)
	}

	records := make([]*model.ArticleRecord, 0, len(candidates))

	for _, cand := range candidates {
		// Sole cancellation point: stops take effect at the article
		// boundary, never mid-extraction.
		if !budget.AllowArticle() {
			break
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		if c.seen[cand.Normalized] {
			c.logger.Debug("skipping already captured article", "url", cand.URL)
			continue
		}

		rec := c.fetchArticle(ctx, cand.URL)
		if cand.Mode == model.ModeSearch {
			rec.Search = &model.SearchContext{
				Keyword:       cand.Keyword,
				Rank:          cand.Rank,
				TotalResults:  cand.TotalResults,
				PagesSearched: cand.Page,
			}
		}

		budget.RecordArticle()
		records = append(records, rec)
	}

	c.logger.Info("crawl finished",
		"records", len(records),
		"pages", budget.Pages,
	)
	return records, discErr
}

// ScrapeOne fetches and extracts a single article URL, skipping discovery.
// The browser session is closed on return.
func (c *Crawler) ScrapeOne(ctx context.Context, url string) (*model.ArticleRecord, error) {
	defer c.browser.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.fetchArticle(ctx, url), nil
}

// fetchArticle loads one article with retries and turns it into a record.
// Fetch failures past the retry cap become success=false records; they
// never propagate as errors, so one bad page cannot abort the run.
func (c *Crawler) fetchArticle(ctx context.Context, url string) *model.ArticleRecord {
	html, err := c.fetch(ctx, url, c.articleDelayMin, &c.lastArticleFetch)
	if err != nil {
		c.logger.Warn("article fetch failed", "url", url, "error", err)
		rec := model.NewFailedRecord(url, err.Error())
		rec.Finalize()
		return rec
	}
	return c.extractor.Extract(html, url)
}

// fetch loads a page with the retry policy applied, respecting the delay
// floor for its fetch class. Challenge pages served with a 200 count as
// transient failures.
func (c *Crawler) fetch(ctx context.Context, url string, delayMin time.Duration, last *time.Time) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err := c.holdDelayFloor(ctx, delayMin, last); err != nil {
			return "", err
		}
		*last = time.Now()

		html, err := c.loadPage(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt < c.retry.MaxAttempts {
			backoff := c.retry.Backoff(attempt)
			c.logger.Debug("retrying fetch",
				"url", url,
				"attempt", attempt,
				"backoff", backoff,
				"error", err,
			)
			if err := sleepCtx(ctx, backoff); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("fetch failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

// loadPage performs one navigation attempt: navigate, wait for the DOM
// condition, simulate reading, capture the DOM, and screen it for
// challenge signatures.
func (c *Crawler) loadPage(ctx context.Context, url string) (string, error) {
	if err := c.browser.Navigate(ctx, url); err != nil {
		return "", err
	}

	if !c.browser.WaitReady(ctx, c.waitSelector, contentWaitTimeout) {
		c.logger.Debug("content wait expired, extracting anyway", "url", url)
	}

	if err := c.browser.SimulateReading(ctx); err != nil {
		return "", err
	}

	html, err := c.browser.HTML(ctx)
	if err != nil {
		return "", err
	}

	if IsChallengePage(html, c.signatures) {
		return "", &ChallengeError{URL: url}
	}
	return html, nil
}

// holdDelayFloor sleeps out whatever remains of the mandatory minimum
// pause since the previous fetch of the same class.
func (c *Crawler) holdDelayFloor(ctx context.Context, delayMin time.Duration, last *time.Time) error {
	if last.IsZero() || delayMin <= 0 {
		return nil
	}
	if remaining := delayMin - time.Since(*last); remaining > 0 {
		return sleepCtx(ctx, remaining)
	}
	return nil
}

// sleepCtx sleeps for d, honoring cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// pageFetcher adapts the crawler's paced, retried fetch into the discovery
// engine's Fetcher, using the discovery-page delay floor.
type pageFetcher struct {
	crawler *Crawler
}

// Fetch implements discover.Fetcher.
func (f *pageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.crawler.fetch(ctx, url, f.crawler.pageDelayMin, &f.crawler.lastPageFetch)
}
