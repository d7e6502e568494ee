package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nriscan/nriscan/internal/model"
)

// minImageDimension filters icons and tracking pixels: images declaring
// both dimensions below this are skipped.
const minImageDimension = 50

// uiImagePatterns mark theme chrome that lives inside the content
// container: emoji substitutions, print buttons, commenter avatars.
var uiImagePatterns = []string{"emoji", "printfriendly", "gravatar", "icon-", "button"}

// extractImages collects the featured image and every content image, in
// document order, deduplicated by resolved src.
func (e *Extractor) extractImages(doc *goquery.Document, pageURL string) []model.ImageRef {
	var images []model.ImageRef
	seen := make(map[string]bool)

	if featured, ok := featuredImage(doc); ok {
		seen[featured.Src] = true
		images = append(images, featured)
	}

	container := e.contentContainer(doc)
	if container == nil {
		return images
	}

	container.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSrc(img, pageURL)
		if src == "" || seen[src] || skipImage(img, src) {
			return
		}
		seen[src] = true

		width, _ := img.Attr("width")
		height, _ := img.Attr("height")
		images = append(images, model.ImageRef{
			Src:     src,
			Alt:     strings.TrimSpace(img.AttrOr("alt", "")),
			Caption: imageCaption(img),
			Width:   width,
			Height:  height,
			Role:    model.ImageRoleContent,
		})
	})

	return images
}

// contentContainer returns the first matching article container, nil when
// the page has none.
func (e *Extractor) contentContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range e.selectors.Content {
		if container := doc.Find(sel).First(); container.Length() > 0 {
			return container
		}
	}
	return nil
}

// featuredImage reads the designated featured-image slot from the page
// metadata. Open Graph first, the Twitter card as fallback.
func featuredImage(doc *goquery.Document) (model.ImageRef, bool) {
	for _, sel := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if src, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(src) != "" {
			return model.ImageRef{
				Src:  strings.TrimSpace(src),
				Role: model.ImageRoleFeatured,
			}, true
		}
	}
	return model.ImageRef{}, false
}

// imageSrc resolves an image URL to absolute form. Lazy-loading themes
// park the real URL in data-src.
func imageSrc(img *goquery.Selection, pageURL string) string {
	src := img.AttrOr("src", "")
	if src == "" {
		src = img.AttrOr("data-src", "")
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// skipImage reports whether an image is theme chrome rather than content.
func skipImage(img *goquery.Selection, src string) bool {
	lower := strings.ToLower(src)
	for _, pattern := range uiImagePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	w, werr := strconv.Atoi(img.AttrOr("width", ""))
	h, herr := strconv.Atoi(img.AttrOr("height", ""))
	if werr == nil && herr == nil && (w < minImageDimension || h < minImageDimension) {
		return true
	}
	return false
}

// imageCaption finds the nearest caption: a figcaption in the enclosing
// figure, else a caption-classed sibling in the same wrapper.
func imageCaption(img *goquery.Selection) string {
	if figure := img.Closest("figure"); figure.Length() > 0 {
		if caption := collapseText(figure.Find("figcaption").First().Text()); caption != "" {
			return caption
		}
	}

	parent := img.Parent()
	if parent.Length() == 0 {
		return ""
	}
	return collapseText(parent.Find(".wp-caption-text, .caption").First().Text())
}
