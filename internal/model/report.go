package model

import "time"

// CrawlReport aggregates the outcome of one crawl run for output.
//
// Design decision: The report is a plain aggregate over ArticleRecords
// rather than a transformed view because:
//  1. Records already carry every field a consumer needs
//  2. Writers decide presentation, the model stays format-neutral
//  3. One shape serves JSON, CSV, Markdown, and terminal output alike
type CrawlReport struct {
	// Site is the origin the run crawled.
	Site string `json:"site"`

	// Mode is the discovery mode used (listing or search).
	Mode DiscoveryMode `json:"mode"`

	// Keyword is the search term, empty for listing runs.
	Keyword string `json:"keyword,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed.
	FinishedAt time.Time `json:"finished_at"`

	// PagesSearched is how many discovery pages were consulted.
	PagesSearched int `json:"pages_searched"`

	// Error is a non-fatal run-level error, such as discovery ending
	// early. Records collected before the error are still present.
	Error string `json:"error,omitempty"`

	// Records are the article records in crawl order.
	Records []*ArticleRecord `json:"records"`
}

// NewCrawlReport creates a report for the given site and discovery mode.
// Keyword may be empty for listing runs.
func NewCrawlReport(site string, mode DiscoveryMode, keyword string) *CrawlReport {
	return &CrawlReport{
		Site:      site,
		Mode:      mode,
		Keyword:   keyword,
		StartedAt: time.Now(),
		Records:   []*ArticleRecord{},
	}
}

// Finish stamps the completion time.
func (r *CrawlReport) Finish() {
	r.FinishedAt = time.Now()
}

// Succeeded returns the number of records extracted successfully.
func (r *CrawlReport) Succeeded() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of records that could not be extracted.
func (r *CrawlReport) Failed() int {
	return len(r.Records) - r.Succeeded()
}

// Duration returns the wall-clock time the run took.
func (r *CrawlReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
