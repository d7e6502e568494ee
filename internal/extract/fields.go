package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// bylinePattern matches a free-text byline like "By Jane Smith" inside the
// post metadata block, the last resort when structured markup is absent.
// Only capitalized words are captured so the name ends where the sentence
// continues.
var bylinePattern = regexp.MustCompile(`\b[Bb]y\s+([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*){0,3})`)

// dateLayouts are the publish date formats the site has been observed to
// render, tried in order. RFC 3339 covers datetime attributes and meta
// tags; the rest cover human-readable bylines.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"01/02/2006",
	"January 2 2006",
	"Jan 2 2006",
}

// titleStrategies is the headline fallback chain: theme heading selectors
// first, the document title tag last.
func (e *Extractor) titleStrategies() []fieldStrategy {
	chain := selectorChain(e.selectors.Title)

	chain = append(chain, fieldStrategy{
		name: "page-title",
		fn: func(doc *goquery.Document) string {
			title := doc.Find("title").First().Text()
			// The title tag carries the site name as the last " - "
			// segment; headlines themselves may contain the separator.
			if i := strings.LastIndex(title, " - "); i >= 0 {
				title = title[:i]
			}
			return collapseText(title)
		},
	})
	return chain
}

// authorStrategies is the byline fallback chain: structured byline markup,
// then author meta tags, then free-text pattern matching inside the post
// metadata region.
func (e *Extractor) authorStrategies() []fieldStrategy {
	chain := selectorChain(e.selectors.Author)

	chain = append(chain,
		fieldStrategy{
			name: "meta-author",
			fn:   metaContent(`meta[name="author"]`),
		},
		fieldStrategy{
			name: "byline-text",
			fn: func(doc *goquery.Document) string {
				region := doc.Find(".td-module-meta-info, .td-post-header, header").Text()
				m := bylinePattern.FindStringSubmatch(region)
				if m == nil {
					return ""
				}
				return collapseText(m[1])
			},
		},
	)
	return chain
}

// dateStrategies is the publish date fallback chain: machine-readable
// datetime attributes, then published-time meta tags, then the visible
// date text.
func (e *Extractor) dateStrategies() []fieldStrategy {
	chain := []fieldStrategy{
		{
			name: "time-datetime",
			fn: func(doc *goquery.Document) string {
				v, _ := doc.Find("time[datetime]").First().Attr("datetime")
				return v
			},
		},
		{
			name: "meta-published-time",
			fn:   metaContent(`meta[property="article:published_time"]`),
		},
	}
	return append(chain, selectorChain(e.selectors.Date)...)
}

// selectorChain lifts a selector list into text extraction strategies.
func selectorChain(selectors []string) []fieldStrategy {
	chain := make([]fieldStrategy, 0, len(selectors))
	for _, sel := range selectors {
		sel := sel
		chain = append(chain, fieldStrategy{
			name: sel,
			fn: func(doc *goquery.Document) string {
				return collapseText(doc.Find(sel).First().Text())
			},
		})
	}
	return chain
}

// metaContent extracts the content attribute of a meta tag.
func metaContent(selector string) func(doc *goquery.Document) string {
	return func(doc *goquery.Document) string {
		v, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(v)
	}
}

// authorCaser converts shouted bylines to title case.
var authorCaser = cases.Title(language.English)

// normalizeAuthor cleans a raw byline: the "By" prefix is dropped and
// all-caps names, which the theme renders for some authors, are folded to
// title case.
func normalizeAuthor(raw string) string {
	author := collapseText(raw)
	for _, prefix := range []string{"By ", "by ", "BY "} {
		author = strings.TrimPrefix(author, prefix)
	}

	if author != "" && author == strings.ToUpper(author) && author != strings.ToLower(author) {
		author = authorCaser.String(strings.ToLower(author))
	}
	return author
}

// ParsePublishDate parses a raw publish date string with the known site
// layouts. The boolean is false when no layout matched; the raw string is
// still kept on the record so nothing is lost.
func ParsePublishDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
