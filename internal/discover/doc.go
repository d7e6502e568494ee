// Package discover implements the pagination and discovery engine.
//
// Discovery is the phase that produces the ordered, deduplicated sequence
// of candidate article URLs, as opposed to the extraction phase that
// fetches and parses each one. Two modes exist, selected once per run:
//
//   - Listing mode walks the site's reverse-chronological listing page by
//     page, collecting article links in on-page order.
//   - Search mode issues a keyword against the site's built-in search and
//     walks the result pages, recording each hit's rank and what the site
//     reports about the result set.
//
// Both modes yield candidates in strict discovery order (page 1 before
// page 2, top of page before bottom) and never yield the same normalized
// URL twice within a run. An empty page terminates discovery; a page
// fetch failure ends discovery early with the candidates collected so
// far rather than aborting the run.
package discover
