package crawler

import (
	"fmt"
	"strings"
	"time"

	"github.com/nriscan/nriscan/internal/config"
)

// ChallengeError marks a page served by the protection layer instead of
// real content. Detected by content signature, not HTTP status: challenge
// pages frequently come back as 200.
type ChallengeError struct {
	// URL is the page that was challenged.
	URL string
}

// Error implements the error interface.
func (e *ChallengeError) Error() string {
	return fmt.Sprintf("challenge page served for %s", e.URL)
}

// RetryPolicy bounds retries on transient fetch failures.
//
// The backoff grows linearly with the attempt number. Exponential growth
// buys nothing here: the delay floors already dominate pacing, and a
// challenged session recovers on human-scale pauses, not minute-scale
// ones.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, first included. Must be
	// at least 1.
	MaxAttempts int

	// BackoffBase scales the delay between attempts: the wait after
	// attempt n is n * BackoffBase.
	BackoffBase time.Duration
}

// DefaultRetryPolicy returns the policy used for real runs.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: config.DefaultRetryAttempts,
		BackoffBase: 2 * time.Second,
	}
}

// Backoff returns the delay to wait after the given failed attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(attempt) * p.BackoffBase
}

// challengeSizeLimit is the largest document still treated as a possible
// challenge page. Real article pages on the site run an order of magnitude
// larger, and signature words like "cloudflare" appear in their CDN script
// URLs, so size gates the signature scan.
const challengeSizeLimit = 64 << 10

// IsChallengePage reports whether the rendered page is a protection-layer
// challenge rather than site content. The signature set is configurable
// because the protection layer's wording changes without notice.
func IsChallengePage(html string, signatures []string) bool {
	if len(html) > challengeSizeLimit {
		return false
	}

	lower := strings.ToLower(html)
	for _, sig := range signatures {
		if sig == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(sig)) {
			return true
		}
	}
	return false
}
