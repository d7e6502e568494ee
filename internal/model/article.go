package model

import "time"

// ImageRole classifies where an image was found on an article page.
type ImageRole string

// Image role values.
const (
	// ImageRoleFeatured marks the image from the designated featured-image
	// slot (og:image or the theme's featured-media block).
	ImageRoleFeatured ImageRole = "featured"

	// ImageRoleContent marks an image found inside the article body.
	ImageRoleContent ImageRole = "content"
)

// CommentType classifies an extracted comment entry.
type CommentType string

// Comment type values.
const (
	// CommentTypeUser is a top-level reader comment.
	CommentTypeUser CommentType = "comment"

	// CommentTypeReply is a nested reply to another comment.
	CommentTypeReply CommentType = "reply"

	// CommentTypeSystem marks non-user entries such as moderation notices.
	CommentTypeSystem CommentType = "system"
)

// ImageRef describes one image referenced by an article.
//
// Width and Height are kept as the raw attribute strings from the DOM.
// They are unvalidated on purpose: the site emits values like "auto" and
// "100%", and normalizing them is a consumer concern.
type ImageRef struct {
	// Src is the resolved absolute image URL.
	Src string `json:"src"`

	// Alt is the image's alt text, possibly empty.
	Alt string `json:"alt,omitempty"`

	// Caption is the nearest caption text (figcaption or a sibling caption
	// element). Empty when no caption was found.
	Caption string `json:"caption,omitempty"`

	// Width is the raw width attribute, empty if absent.
	Width string `json:"width,omitempty"`

	// Height is the raw height attribute, empty if absent.
	Height string `json:"height,omitempty"`

	// Role indicates whether the image came from the featured slot or the
	// article body.
	Role ImageRole `json:"role"`
}

// CommentRef describes one extracted comment.
type CommentRef struct {
	// Text is the comment body as plain text.
	Text string `json:"text"`

	// Author is the commenter's display name, empty if unknown.
	Author string `json:"author,omitempty"`

	// Date is the comment date as displayed on the page, empty if unknown.
	// No parsing is attempted; comment dates on the site are relative
	// strings like "2 days ago" as often as absolute dates.
	Date string `json:"date,omitempty"`

	// Type classifies the entry as a user comment, a reply, or system text.
	Type CommentType `json:"type"`
}

// SearchContext carries the discovery context for an article found through
// keyword search. Listing-mode records have no SearchContext.
type SearchContext struct {
	// Keyword is the search term that produced this hit.
	Keyword string `json:"keyword"`

	// Rank is the 1-based position of this hit across all result pages,
	// in strict discovery order.
	Rank int `json:"rank"`

	// TotalResults is the result count the site reported on the first
	// result page, or 0 if the site did not report one.
	TotalResults int `json:"total_results,omitempty"`

	// PagesSearched is the number of result pages consulted by the time
	// this hit was found.
	PagesSearched int `json:"pages_searched"`
}

// ArticleRecord is the structured output for one article URL.
//
// Invariant: records with Success=false carry an Error reason and empty
// content fields. Records with Success=true have non-empty Content unless
// the page genuinely had none. The derived counts always equal the length
// of their corresponding fields; use Finalize to enforce this after
// construction.
type ArticleRecord struct {
	// URL is the article URL as fetched.
	URL string `json:"url"`

	// Success reports whether extraction produced usable content.
	Success bool `json:"success"`

	// Error is the failure reason when Success is false.
	Error string `json:"error,omitempty"`

	// Title is the article headline.
	Title string `json:"title,omitempty"`

	// Content is the article body as plain text.
	Content string `json:"content,omitempty"`

	// Author is the byline author, empty if none was found.
	Author string `json:"author,omitempty"`

	// PublishDate is the publish date as displayed on the page.
	// Kept raw so nothing is lost when parsing fails.
	PublishDate string `json:"publish_date,omitempty"`

	// PublishedAt is the parsed publish date, nil when the raw string
	// could not be parsed with any known layout.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Images are the article's images in document order.
	Images []ImageRef `json:"images,omitempty"`

	// Comments are the article's comments in thread order.
	Comments []CommentRef `json:"comments,omitempty"`

	// ContentLength is len(Content). Derived, never set directly.
	ContentLength int `json:"content_length"`

	// ImageCount is len(Images). Derived, never set directly.
	ImageCount int `json:"image_count"`

	// CommentCount is len(Comments). Derived, never set directly.
	CommentCount int `json:"comment_count"`

	// Search is the discovery context when the article came from a
	// keyword search; nil for listing-mode and single-URL records.
	Search *SearchContext `json:"search,omitempty"`
}

// NewFailedRecord returns a success=false record for url with the given
// reason. All content fields are left empty per the record invariant.
func NewFailedRecord(url, reason string) *ArticleRecord {
	return &ArticleRecord{
		URL:     url,
		Success: false,
		Error:   reason,
	}
}

// Finalize recomputes the derived count fields from the current sequences.
// Every code path that constructs or mutates a record must call Finalize
// before handing the record to the orchestrator.
func (a *ArticleRecord) Finalize() {
	a.ContentLength = len(a.Content)
	a.ImageCount = len(a.Images)
	a.CommentCount = len(a.Comments)
}

// CountsConsistent reports whether the derived counts match the sequences.
// The test suite checks this on every record a run produces.
func (a *ArticleRecord) CountsConsistent() bool {
	return a.ContentLength == len(a.Content) &&
		a.ImageCount == len(a.Images) &&
		a.CommentCount == len(a.Comments)
}
