// Package wordpress ingests posts through the site's REST API.
//
// The API surface is the ordinary WordPress collection endpoint
// (/wp-json/wp/v2/posts) returning paginated JSON with rendered HTML
// fields and, via the _embed parameter, the featured media. This path
// needs no browser: the API sits behind the same host but is not
// challenged, so a plain HTTP client with polite pacing suffices.
//
// Fetched posts convert into the same ArticleRecord shape the crawl
// pipeline produces, with the rendered HTML turned into markdown so the
// content survives as readable plain text.
package wordpress
