package discover

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/nriscan/nriscan/internal/config"
	"github.com/nriscan/nriscan/internal/model"
)

// fullPageSize is how many results the site serves per listing or search
// page. A page with fewer hits is treated as the last one when no
// pagination block confirms otherwise.
const fullPageSize = 7

// Fetcher loads a page and returns its rendered HTML. The crawl
// orchestrator supplies an implementation backed by the browser session
// with retry and pacing applied, so discovery stays free of transport
// concerns and tests can feed it static HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Engine discovers candidate article URLs through either the listing or
// the search surface of the site.
type Engine struct {
	// fetcher loads discovery pages.
	fetcher Fetcher

	// baseURL is the site root, without a trailing slash.
	baseURL string

	// selectors scope link harvesting and pagination parsing.
	selectors config.Selectors

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBaseURL sets the site root. Defaults to the built-in target.
func WithBaseURL(baseURL string) Option {
	return func(e *Engine) {
		e.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithSelectors sets the discovery selectors. Defaults to the built-in
// profile.
func WithSelectors(s config.Selectors) Option {
	return func(e *Engine) {
		e.selectors = s
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a discovery engine over the given fetcher.
func NewEngine(fetcher Fetcher, opts ...Option) *Engine {
	e := &Engine{
		fetcher:   fetcher,
		baseURL:   config.DefaultBaseURL,
		selectors: config.DefaultProfile().Selectors,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Listing walks the reverse-chronological article listing and returns up
// to budget.MaxArticles candidates in strict discovery order. Consulted
// pages are counted against the budget.
//
// A fetch failure ends discovery early: the candidates collected so far
// are returned together with the error, and the caller decides whether
// the run continues with partial results.
func (e *Engine) Listing(ctx context.Context, budget *model.CrawlBudget) ([]model.CandidateURL, error) {
	return e.walk(ctx, budget, e.listingPageURL, func(raw string, page, _ int) model.CandidateURL {
		return model.NewCandidate(raw, page)
	})
}

// Search issues the keyword against the site's search endpoint and walks
// the result pages. Candidates carry the keyword, a strictly increasing
// rank across all pages, and the result total reported by the site on the
// first page (0 when the site reports none). Stops when budget.MaxArticles
// candidates are collected or budget.MaxPages pages have been consulted,
// whichever comes first.
func (e *Engine) Search(ctx context.Context, keyword string, budget *model.CrawlBudget) ([]model.CandidateURL, error) {
	pageURL := func(page int) string {
		if page == 1 {
			return fmt.Sprintf("%s/?s=%s", e.baseURL, url.QueryEscape(keyword))
		}
		return fmt.Sprintf("%s/page/%d/?s=%s", e.baseURL, page, url.QueryEscape(keyword))
	}

	return e.walk(ctx, budget, pageURL, func(raw string, page, rank int) model.CandidateURL {
		return model.NewSearchCandidate(raw, page, rank, 0, keyword)
	})
}

// listingPageURL builds the URL of the nth listing page.
func (e *Engine) listingPageURL(page int) string {
	if page == 1 {
		return e.baseURL
	}
	return fmt.Sprintf("%s/page/%d/", e.baseURL, page)
}

// walk is the shared pagination loop. pageURL maps a 1-based page index to
// its URL; build turns a harvested link into a candidate.
func (e *Engine) walk(
	ctx context.Context,
	budget *model.CrawlBudget,
	pageURL func(page int) string,
	build func(raw string, page, rank int) model.CandidateURL,
) ([]model.CandidateURL, error) {
	var (
		candidates   []model.CandidateURL
		seen         = make(map[string]bool)
		totalResults int
	)

	for page := 1; ; page++ {
		if len(candidates) >= budget.MaxArticles {
			break
		}
		if budget.MaxPages > 0 && page > budget.MaxPages {
			break
		}
		if err := ctx.Err(); err != nil {
			return candidates, err
		}

		target := pageURL(page)
		e.logger.Debug("fetching discovery page", "page", page, "url", target)

		html, err := e.fetcher.Fetch(ctx, target)
		if err != nil {
			// Partial results, not a fatal abort. The caller
			// continues with what was collected.
			e.logger.Warn("discovery page failed, ending discovery early",
				"page", page,
				"collected", len(candidates),
				"error", err,
			)
			return candidates, fmt.Errorf("discovery page %d: %w", page, err)
		}
		budget.RecordPage()

		doc, err := parsePage(html)
		if err != nil {
			return candidates, fmt.Errorf("discovery page %d: %w", page, err)
		}

		if page == 1 {
			totalResults = doc.totalResults(e.selectors)
		}

		links := doc.articleLinks(e.selectors, e.baseURL)
		if len(links) == 0 {
			// No more pages, not an error.
			e.logger.Debug("empty discovery page, stopping", "page", page)
			break
		}

		added := 0
		for _, link := range links {
			key := model.NormalizeURL(link)
			if seen[key] {
				// Pagination overlap: new posts can shift pages
				// mid-crawl. Silently dropped.
				continue
			}
			seen[key] = true

			c := build(link, page, len(candidates)+1)
			if c.Mode == model.ModeSearch {
				c.TotalResults = totalResults
			}
			candidates = append(candidates, c)
			added++
		}

		e.logger.Debug("discovery page harvested",
			"page", page,
			"links", added,
			"total", len(candidates),
		)

		if !doc.hasNextPage(e.selectors, page, len(links)) {
			break
		}
	}

	if len(candidates) > budget.MaxArticles {
		candidates = candidates[:budget.MaxArticles]
	}
	return candidates, nil
}
