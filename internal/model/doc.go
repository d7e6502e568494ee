// Package model defines the core data structures used throughout nriscan.
//
// This package contains the following main types:
//   - CandidateURL: A discovered, not-yet-fetched article link with its discovery context
//   - ArticleRecord: The structured result of extracting one article page
//   - CrawlBudget: The hard limits that bound a single crawl run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (discover, extract, crawler, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
