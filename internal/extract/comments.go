package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nriscan/nriscan/internal/model"
)

// minCommentLength drops fragments left behind by comment form markup.
const minCommentLength = 5

// commentFormPhrases identify reply-form text that leaks into the comment
// list on some theme versions.
var commentFormPhrases = []string{"leave a reply", "cancel reply", "your email"}

// extractComments parses the comment thread. A page without a comment
// section simply yields no comments; that is an ordinary state, not an
// extraction failure.
func (e *Extractor) extractComments(doc *goquery.Document) []model.CommentRef {
	section := doc.Find(e.selectors.Comments).First()
	if section.Length() == 0 {
		return nil
	}

	list := section.Find("ol.comment-list").First()
	if list.Length() == 0 {
		return nil
	}

	var comments []model.CommentRef
	seen := make(map[string]bool)

	list.Find("li.comment, li.pingback, li.trackback").Each(func(_ int, item *goquery.Selection) {
		c, ok := parseComment(item)
		if !ok || seen[c.Text] {
			return
		}
		seen[c.Text] = true
		comments = append(comments, c)
	})

	return comments
}

// parseComment extracts one thread entry. The theme wraps each comment in
// an article element holding a cite (author), a time (date), and a
// comment-content div.
func parseComment(item *goquery.Selection) (model.CommentRef, bool) {
	body := item.Find("article").First()
	if body.Length() == 0 {
		return model.CommentRef{}, false
	}

	content := body.Find("div.comment-content").First()
	if content.Length() == 0 {
		return model.CommentRef{}, false
	}

	text := collapseText(content.Text())
	if len(text) < minCommentLength || isFormText(text) {
		return model.CommentRef{}, false
	}

	return model.CommentRef{
		Text:   text,
		Author: collapseText(body.Find("cite").First().Text()),
		Date:   collapseText(body.Find("time").First().Text()),
		Type:   commentType(item),
	}, true
}

// commentType classifies a thread entry: pingbacks and trackbacks are
// system entries, anything nested under ul.children is a reply, the rest
// are top-level user comments.
func commentType(item *goquery.Selection) model.CommentType {
	if item.HasClass("pingback") || item.HasClass("trackback") {
		return model.CommentTypeSystem
	}
	if item.ParentsFiltered("ul.children").Length() > 0 {
		return model.CommentTypeReply
	}
	return model.CommentTypeUser
}

// isFormText reports whether the text is comment-form markup rather than
// a reader comment.
func isFormText(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range commentFormPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
