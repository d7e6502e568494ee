package wordpress

import (
	"context"
	"html"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	htmlparse "golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/nriscan/nriscan/internal/model"
)

// convertConcurrency bounds parallel HTML-to-markdown conversion. The
// conversion is CPU work on already-fetched data, so unlike page fetching
// it is safe to parallelize.
const convertConcurrency = 4

// wpTimeLayout is the API's date format: ISO 8601 without a zone, in the
// site's local time.
const wpTimeLayout = "2006-01-02T15:04:05"

// Converter turns API posts into article records.
type Converter struct {
	// md renders the post's HTML content as markdown.
	md *md.Converter
}

// NewConverter creates a post converter.
func NewConverter() *Converter {
	return &Converter{
		md: md.NewConverter("", true, nil),
	}
}

// Records converts posts into article records, preserving order. The
// conversion of each post is independent, so failures degrade per field
// the same way browser extraction does: a post whose HTML cannot be
// converted keeps its raw text, never aborts the batch.
func (c *Converter) Records(ctx context.Context, posts []Post) ([]*model.ArticleRecord, error) {
	records := make([]*model.ArticleRecord, len(posts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(convertConcurrency)

	for i := range posts {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = c.record(&posts[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// record converts one post.
func (c *Converter) record(p *Post) *model.ArticleRecord {
	rec := &model.ArticleRecord{
		URL:         p.Link,
		Success:     true,
		Title:       html.UnescapeString(strings.TrimSpace(p.Title.Rendered)),
		Content:     c.content(p.Content.Rendered),
		PublishDate: p.Date,
	}

	if t, err := time.Parse(wpTimeLayout, p.Date); err == nil {
		rec.PublishedAt = &t
	}

	if src := p.FeaturedImage(); src != "" {
		rec.Images = append(rec.Images, model.ImageRef{
			Src:  src,
			Role: model.ImageRoleFeatured,
		})
	}

	rec.Finalize()
	return rec
}

// content renders the post's HTML as markdown, falling back to tag-
// stripped plain text when conversion fails.
func (c *Converter) content(rendered string) string {
	markdown, err := c.md.ConvertString(rendered)
	if err != nil {
		return stripTags(rendered)
	}
	return strings.TrimSpace(markdown)
}

// stripTags reduces HTML to its text content. Script and style bodies
// are dropped entirely.
func stripTags(s string) string {
	var (
		sb   strings.Builder
		skip bool
	)

	z := htmlparse.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case htmlparse.ErrorToken:
			return strings.Join(strings.Fields(sb.String()), " ")
		case htmlparse.StartTagToken, htmlparse.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip = tt == htmlparse.StartTagToken
			default:
				sb.WriteByte(' ')
			}
		case htmlparse.TextToken:
			if !skip {
				sb.Write(z.Text())
			}
		}
	}
}
