package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minSubstantialContent is the body length below which a matched container
// is treated as a theme shell rather than the article, and the next
// selector is tried.
const minSubstantialContent = 100

// bodyText resolves the article body through the content selector chain,
// with readability extraction as the last resort. The boolean reports
// whether any recognizable article container was found; when it is false
// the whole record is a failure.
func (e *Extractor) bodyText(doc *goquery.Document, html, pageURL string) (string, bool) {
	var (
		found    bool
		fallback string
	)

	for _, sel := range e.selectors.Content {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		found = true

		text := e.containerText(container)
		if len(text) >= minSubstantialContent {
			return text, true
		}
		if fallback == "" {
			fallback = text
		}
	}

	// A page that matched a container but never produced substantial
	// text is usually a gallery or video post. Readability gets one
	// shot at it; pages it cannot handle keep the short text.
	if text := readabilityText(html, pageURL); len(text) >= minSubstantialContent {
		return text, true
	}

	return fallback, found
}

// containerText flattens the container to plain text with ad, navigation,
// and share-widget subtrees removed. Exclusion is by structural position;
// no keyword filtering is applied to the text itself.
func (e *Extractor) containerText(container *goquery.Selection) string {
	clone := container.Clone()
	if len(e.selectors.Exclude) > 0 {
		clone.Find(strings.Join(e.selectors.Exclude, ", ")).Remove()
	}

	var parts []string
	clone.Contents().Each(func(_ int, s *goquery.Selection) {
		if text := collapseText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// readabilityText runs generic article extraction over the whole page.
func readabilityText(html, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return ""
	}
	return collapseText(article.TextContent)
}
