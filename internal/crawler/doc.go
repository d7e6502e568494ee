// Package crawler orchestrates a full crawl run.
//
// The orchestrator owns the one browser session for the lifetime of a run
// and drives it strictly sequentially: discovery first, then article by
// article. Pacing is centralized here: a mandatory minimum pause between
// discovery pages and a larger one between articles, both respected even
// under retries. Transient failures (timeouts, navigation errors,
// challenge pages) are retried a fixed number of times with an increasing
// delay; after the cap the article becomes a success=false record and the
// run moves on. One bad page never aborts a multi-article run.
//
// Cancellation is cooperative: the budget check between articles is the
// sole cancellation point, so an external stop takes effect at the next
// article boundary, never mid-extraction.
package crawler
