package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nriscan/nriscan/internal/config"
	"github.com/nriscan/nriscan/internal/model"
)

// reasonNoContainer is the failure reason for pages with no recognizable
// article container.
const reasonNoContainer = "no recognizable article container"

// whitespacePattern collapses runs of whitespace in extracted text.
var whitespacePattern = regexp.MustCompile(`\s+`)

// Extractor parses article pages into records.
type Extractor struct {
	// selectors drive every extraction strategy chain.
	selectors config.Selectors

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelectors sets the extraction selectors. Defaults to the built-in
// profile.
func WithSelectors(s config.Selectors) Option {
	return func(e *Extractor) {
		e.selectors = s
	}
}

// WithLogger sets a custom logger for the extractor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an article extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		selectors: config.DefaultProfile().Selectors,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the rendered HTML of an article page into a record.
// It always returns a record: ordinary malformed or partial content
// produces a success=true record with the affected fields empty, and
// only a page with no recognizable article container at all comes back
// with success=false.
func (e *Extractor) Extract(html, pageURL string) *model.ArticleRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.NewFailedRecord(pageURL, "unparseable page: "+err.Error())
	}

	body, containerFound := e.bodyText(doc, html, pageURL)
	if !containerFound {
		e.logger.Warn("no article container on page", "url", pageURL)
		rec := model.NewFailedRecord(pageURL, reasonNoContainer)
		rec.Finalize()
		return rec
	}

	rec := &model.ArticleRecord{
		URL:     pageURL,
		Success: true,
		Content: body,
	}

	rec.Title, _ = firstHit(doc, e.titleStrategies())
	rec.Author = normalizeAuthor(firstHitValue(doc, e.authorStrategies()))
	rec.PublishDate, _ = firstHit(doc, e.dateStrategies())
	if t, ok := ParsePublishDate(rec.PublishDate); ok {
		rec.PublishedAt = &t
	}

	rec.Images = e.extractImages(doc, pageURL)
	rec.Comments = e.extractComments(doc)

	rec.Finalize()
	e.logger.Debug("article extracted",
		"url", pageURL,
		"title", rec.Title,
		"content_length", rec.ContentLength,
		"images", rec.ImageCount,
		"comments", rec.CommentCount,
	)
	return rec
}

// fieldStrategy is one step in an ordered fallback chain. Chains
// short-circuit on the first strategy returning a non-empty value, which
// makes the fallback order an explicit, testable contract.
type fieldStrategy struct {
	// name identifies the strategy in logs and tests.
	name string

	// fn extracts the field value, empty string on miss.
	fn func(doc *goquery.Document) string
}

// firstHit runs the chain and returns the first non-empty value together
// with the name of the strategy that produced it.
func firstHit(doc *goquery.Document, chain []fieldStrategy) (string, string) {
	for _, s := range chain {
		if v := strings.TrimSpace(s.fn(doc)); v != "" {
			return v, s.name
		}
	}
	return "", ""
}

// firstHitValue is firstHit without the strategy name.
func firstHitValue(doc *goquery.Document, chain []fieldStrategy) string {
	v, _ := firstHit(doc, chain)
	return v
}

// collapseText flattens a text node sequence to single-spaced plain text.
func collapseText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
