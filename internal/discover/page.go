package discover

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nriscan/nriscan/internal/config"
)

// resultPage wraps a parsed discovery page.
type resultPage struct {
	doc *goquery.Document
}

// parsePage parses a listing or search result page.
func parsePage(html string) (*resultPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse discovery page: %w", err)
	}
	return &resultPage{doc: doc}, nil
}

// pagesPattern matches the theme's pagination label, e.g. "Page 2 of 11".
var pagesPattern = regexp.MustCompile(`Page\s+(\d+)\s+of\s+(\d+)`)

// resultsPattern matches an explicit result total, e.g. "83 search results".
var resultsPattern = regexp.MustCompile(`([\d,]+)\s+(?:search\s+)?results?`)

// scope returns the main content area when the selector matches, else the
// whole document. Scoping keeps navigation and sidebar links out of the
// harvest.
func (p *resultPage) scope(mainContent string) *goquery.Selection {
	if mainContent != "" {
		if sel := p.doc.Find(mainContent); sel.Length() > 0 {
			return sel
		}
	}
	return p.doc.Selection
}

// articleLinks harvests article URLs from the page in document order.
// Result title headings are the primary source; when the page has none,
// every anchor in the main content area is considered. Both paths apply
// the same article-shape filter, and duplicates within the page are
// dropped while preserving first-seen order.
func (p *resultPage) articleLinks(selectors config.Selectors, baseURL string) []string {
	root := p.scope(selectors.MainContent)

	var links []string
	seen := make(map[string]bool)
	add := func(href string) {
		href = resolveLink(baseURL, href)
		if !isArticleLink(href, baseURL) || seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	}

	if rt := selectors.ResultTitle; rt != "" {
		root.Find(rt).Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				add(href)
			}
		})
	}

	if len(links) == 0 {
		root.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				add(href)
			}
		})
	}

	return links
}

// isArticleLink reports whether href has the shape of an article permalink:
// on-site, date-addressed, and not a pagination or comment anchor.
func isArticleLink(href, baseURL string) bool {
	if !strings.HasPrefix(href, baseURL+"/") {
		return false
	}
	// Article permalinks are date-addressed (/2025/03/...). The decade
	// check keeps category, tag, and author pages out.
	if !strings.Contains(href, "/202") {
		return false
	}
	if strings.Contains(href, "/page/") {
		return false
	}
	if strings.HasSuffix(href, "#comments") || strings.HasSuffix(href, "#respond") {
		return false
	}
	return true
}

// totalPages parses the "Page X of Y" pagination label, returning 0 when
// the page has none.
func (p *resultPage) totalPages(pageNav string) int {
	if pageNav == "" {
		return 0
	}

	text := p.doc.Find(pageNav).Text()
	m := pagesPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	total, err := strconv.Atoi(m[2])
	if err != nil {
		return 0
	}
	return total
}

// totalResults extracts the result total the site reports on a search
// page, or 0 when it reports none. The theme does not always render a
// count, so this is best-effort by design of the page, not of the parser.
func (p *resultPage) totalResults(s config.Selectors) int {
	text := p.scope(s.MainContent).Text()
	m := resultsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return n
}

// hasNextPage reports whether another page should be fetched after the
// given one. Three signals, in order of trust: the "Page X of Y" label,
// an explicit link to the next page number, and a full result page with
// no pagination block at all.
func (p *resultPage) hasNextPage(s config.Selectors, page, linksOnPage int) bool {
	if total := p.totalPages(s.PageNav); total > 0 {
		return page < total
	}

	next := fmt.Sprintf("/page/%d/", page+1)
	found := false
	p.doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.Contains(href, next) {
			found = true
			return false
		}
		return true
	})
	if found {
		return true
	}

	// A full page with no pagination markup at all usually means the
	// theme lazy-renders the nav. Assume more pages; the empty-page
	// check on the next fetch catches the end.
	return linksOnPage >= fullPageSize
}

// resolveLink makes href absolute against base. Discovery pages on this
// site use absolute links, but relative ones appear in syndicated blocks.
func resolveLink(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
