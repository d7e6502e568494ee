package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nriscan/nriscan/internal/config"
)

// maxPerPage is the API's hard per-page ceiling.
const maxPerPage = 100

// RenderedField is the API's {"rendered": "..."} wrapper around HTML
// content.
type RenderedField struct {
	Rendered string `json:"rendered"`
}

// Media is an embedded media object; only the source URL matters here.
type Media struct {
	SourceURL string `json:"source_url"`
}

// Embedded carries the data requested via the _embed parameter.
type Embedded struct {
	FeaturedMedia []Media `json:"wp:featuredmedia,omitempty"`
}

// Post is one post object as the collection endpoint returns it.
type Post struct {
	ID         int           `json:"id"`
	Date       string        `json:"date"`
	Modified   string        `json:"modified"`
	Slug       string        `json:"slug"`
	Link       string        `json:"link"`
	Title      RenderedField `json:"title"`
	Content    RenderedField `json:"content"`
	Excerpt    RenderedField `json:"excerpt"`
	Author     int           `json:"author"`
	Categories []int         `json:"categories"`
	Tags       []int         `json:"tags"`
	Embedded   *Embedded     `json:"_embedded,omitempty"`
}

// FeaturedImage returns the embedded featured media URL, empty when the
// post has none or _embed was not requested.
func (p *Post) FeaturedImage() string {
	if p.Embedded == nil || len(p.Embedded.FeaturedMedia) == 0 {
		return ""
	}
	return p.Embedded.FeaturedMedia[0].SourceURL
}

// APIError is a non-2xx response from the API.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// URL is the request that failed.
	URL string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("wordpress api returned status %d for %s", e.Status, e.URL)
}

// PostQuery filters a posts request.
type PostQuery struct {
	// PerPage is the page size, capped at the API limit of 100.
	PerPage int

	// After restricts to posts published after this ISO 8601 instant.
	After string

	// Before restricts to posts published before this ISO 8601 instant.
	Before string

	// Categories filters by category IDs.
	Categories []int

	// Tags filters by tag IDs.
	Tags []int
}

// Client talks to the posts collection endpoint with polite pacing.
type Client struct {
	// httpClient performs the requests.
	httpClient *http.Client

	// apiBase is "<site>/wp-json/wp/v2".
	apiBase string

	// limiter paces page requests. The API is not challenged, but it
	// shares rate tolerance with the protected front end.
	limiter *rate.Limiter

	// userAgent identifies the client honestly; the API path does not
	// need the browser fingerprint.
	userAgent string

	// logger for structured logging.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the pacing between page requests.
func WithRateLimit(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithClientLogger sets a custom logger for the client.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an API client for the given site root.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: config.DefaultTimeout},
		apiBase:    strings.TrimSuffix(baseURL, "/") + "/wp-json/wp/v2",
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		userAgent:  config.AppName + "/1.0",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Posts fetches one page of published posts with embedded media.
func (c *Client) Posts(ctx context.Context, page int, q PostQuery) ([]Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.apiBase + "/posts?" + q.values(page).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build posts request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posts request failed: %w", err)
	}
	defer resp.Body.Close()

	// The API answers 400 for a page past the end; treat it like an
	// empty page so pagination terminates cleanly.
	if resp.StatusCode == http.StatusBadRequest && page > 1 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, &APIError{Status: resp.StatusCode, URL: endpoint}
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts response: %w", err)
	}

	c.logger.Debug("fetched posts page", "page", page, "posts", len(posts))
	return posts, nil
}

// AllPosts pages through the collection until it runs dry or maxPosts is
// reached. maxPosts of 0 means no cap.
func (c *Client) AllPosts(ctx context.Context, q PostQuery, maxPosts int) ([]Post, error) {
	var all []Post

	for page := 1; ; page++ {
		posts, err := c.Posts(ctx, page, q)
		if err != nil {
			return all, err
		}
		if len(posts) == 0 {
			break
		}

		all = append(all, posts...)
		if maxPosts > 0 && len(all) >= maxPosts {
			all = all[:maxPosts]
			break
		}
	}

	c.logger.Info("fetched posts", "total", len(all))
	return all, nil
}

// values builds the query string for a posts page request.
func (q PostQuery) values(page int) url.Values {
	perPage := q.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	v := url.Values{}
	v.Set("per_page", strconv.Itoa(perPage))
	v.Set("page", strconv.Itoa(page))
	v.Set("status", "publish")
	v.Set("_embed", "true")
	if q.After != "" {
		v.Set("after", q.After)
	}
	if q.Before != "" {
		v.Set("before", q.Before)
	}
	if len(q.Categories) > 0 {
		v.Set("categories", joinInts(q.Categories))
	}
	if len(q.Tags) > 0 {
		v.Set("tags", joinInts(q.Tags))
	}
	return v
}

// joinInts renders IDs as the comma-separated list the API expects.
func joinInts(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}
