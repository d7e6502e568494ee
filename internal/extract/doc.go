// Package extract turns a loaded article page into a structured record.
//
// Extraction never fails hard on malformed or partial content. Each field
// is resolved through an ordered chain of strategies that short-circuits
// on the first hit, and a miss in one field leaves that field empty
// without touching the others. The only failure the package reports is
// the page having no recognizable article container at all, which flips
// the record to success=false; retrying such a page is pointless, so the
// caller does not.
//
// All parsing happens on the rendered HTML string handed over by the
// browser session. The package performs no network access: images are
// referenced by URL, never downloaded.
package extract
