package model

// CrawlBudget caps how much work a single crawl run may do.
//
// MaxArticles is a hard cap, not a soft target: once it is reached no
// further pages are fetched and in-flight discovery stops. MaxPages bounds
// the number of search result pages consulted (search mode only).
//
// The budget is mutated only by the orchestrator; discovery and extraction
// observe it through the Allow* methods.
type CrawlBudget struct {
	// MaxArticles is the maximum number of articles to fetch. Must be > 0.
	MaxArticles int

	// MaxPages is the maximum number of search result pages to consult.
	// Ignored in listing mode, where discovery ends when MaxArticles
	// candidates have been collected or the listing runs out.
	MaxPages int

	// Articles is the number of articles fetched so far.
	Articles int

	// Pages is the number of discovery pages consulted so far.
	Pages int
}

// AllowArticle reports whether another article may be fetched.
func (b *CrawlBudget) AllowArticle() bool {
	return b.Articles < b.MaxArticles
}

// AllowPage reports whether another discovery page may be consulted.
// When MaxPages is 0 (listing mode) only the article cap applies.
func (b *CrawlBudget) AllowPage() bool {
	if !b.AllowArticle() {
		return false
	}
	if b.MaxPages > 0 && b.Pages >= b.MaxPages {
		return false
	}
	return true
}

// RecordArticle counts one fetched article against the budget.
func (b *CrawlBudget) RecordArticle() {
	b.Articles++
}

// RecordPage counts one consulted discovery page against the budget.
func (b *CrawlBudget) RecordPage() {
	b.Pages++
}

// Remaining returns how many more articles the budget allows.
func (b *CrawlBudget) Remaining() int {
	if n := b.MaxArticles - b.Articles; n > 0 {
		return n
	}
	return 0
}
