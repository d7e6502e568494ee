package model

import (
	"net/url"
	"strings"
)

// DiscoveryMode identifies which discovery strategy produced a candidate.
type DiscoveryMode string

// Discovery mode values.
const (
	// ModeListing walks the site's reverse-chronological article listing.
	ModeListing DiscoveryMode = "listing"

	// ModeSearch walks the site's keyword search result pages.
	ModeSearch DiscoveryMode = "search"

	// ModeAPI fetches posts through the site's WordPress REST API
	// instead of the browser.
	ModeAPI DiscoveryMode = "api"
)

// CandidateURL is a discovered article link plus its discovery context.
// Candidates are immutable once created; the discovery engine guarantees
// that no two candidates with the same normalized URL are ever yielded
// within one run.
type CandidateURL struct {
	// URL is the article link exactly as it appeared on the page.
	URL string `json:"url"`

	// Normalized is NormalizeURL(URL), used as the dedup key.
	Normalized string `json:"normalized"`

	// Mode records whether the candidate came from listing or search.
	Mode DiscoveryMode `json:"mode"`

	// Page is the 1-based index of the discovery page the link was found on.
	Page int `json:"page"`

	// Keyword is the search term (search mode only).
	Keyword string `json:"keyword,omitempty"`

	// Rank is the 1-based position across all result pages (search mode only).
	Rank int `json:"rank,omitempty"`

	// TotalResults is the site-reported result total captured from the
	// first result page (search mode only; 0 when not reported).
	TotalResults int `json:"total_results,omitempty"`
}

// NormalizeURL reduces a URL to its dedup identity: lowercase scheme and
// host, path with the trailing slash removed, no query, no fragment.
//
// Design decision: We strip the query string entirely because the site's
// article URLs are fully path-addressed (/YYYY/MM/DD/slug/); query params
// on them are tracking noise (?utm_source=...) that would defeat dedup.
// Normalization is idempotent: normalizing an already-normalized URL is
// a no-op.
func NormalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""

	// Trailing slash is not significant on this site: /2025/03/slug and
	// /2025/03/slug/ serve the same article.
	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String()
}

// NewCandidate builds a listing-mode candidate.
func NewCandidate(rawURL string, page int) CandidateURL {
	return CandidateURL{
		URL:        rawURL,
		Normalized: NormalizeURL(rawURL),
		Mode:       ModeListing,
		Page:       page,
	}
}

// NewSearchCandidate builds a search-mode candidate with its rank and the
// site-reported total result count.
func NewSearchCandidate(rawURL string, page, rank, total int, keyword string) CandidateURL {
	return CandidateURL{
		URL:          rawURL,
		Normalized:   NormalizeURL(rawURL),
		Mode:         ModeSearch,
		Page:         page,
		Keyword:      keyword,
		Rank:         rank,
		TotalResults: total,
	}
}
