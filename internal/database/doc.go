// Package database provides SQLite-backed storage for crawl results.
//
// Two concerns live here: persisting article records across runs, and the
// seen-URL set that lets a crawl resume without re-fetching articles it
// already has. Every fetched page costs a paced browser navigation
// against a protected site, so skipping known URLs is the cheapest
// stealth measure available.
package database
