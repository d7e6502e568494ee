package extract

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nriscan/nriscan/internal/model"
)

const testArticleURL = "https://www.nrinow.news/2025/03/20/mill-fire-update/"

// articlePage is a trimmed-down capture of the site's article markup shape.
const articlePage = `<html>
<head>
<title>Mill fire under investigation - NRI NOW</title>
<meta property="og:image" content="https://www.nrinow.news/wp-content/uploads/2025/03/mill-featured.jpg"/>
<meta property="article:published_time" content="2025-03-20T09:15:00+00:00"/>
</head>
<body>
<div class="td-post-header">
	<h1 class="entry-title">Mill fire under investigation</h1>
	<div class="td-module-meta-info">
		<span class="td-post-author-name"><a href="/author/es">ERIN SMITH</a></span>
		<span class="td-post-date"><time class="entry-date" datetime="2025-03-20T09:15:00+00:00">March 20, 2025</time></span>
	</div>
</div>
<div class="pf-content">
	<p>Fire crews responded to the former mill complex early Thursday.</p>
	<p>The cause remains under investigation, officials said, and the building has been secured.</p>
	<figure>
		<img src="/wp-content/uploads/2025/03/mill-scene.jpg" alt="Mill complex" width="1024" height="683"/>
		<figcaption>Crews at the scene Thursday morning.</figcaption>
	</figure>
	<img src="https://www.nrinow.news/wp-content/plugins/printfriendly/button.png" width="16" height="16"/>
	<img data-src="//cdn.nrinow.news/uploads/aerial.jpg" alt="Aerial view"/>
	<div class="td-post-sharing"><p>Share this story on every network you have.</p></div>
</div>
<div class="comments" id="comments">
	<ol class="comment-list">
		<li class="comment" id="comment-101">
			<article>
				<cite>Local Reader</cite>
				<time>March 20, 2025 at 11:02 am</time>
				<div class="comment-content"><p>Glad no one was hurt.</p></div>
			</article>
			<ul class="children">
				<li class="comment" id="comment-102">
					<article>
						<cite>Erin Smith</cite>
						<time>March 20, 2025 at 12:30 pm</time>
						<div class="comment-content"><p>Thank you for reading, updates to follow.</p></div>
					</article>
				</li>
			</ul>
		</li>
		<li class="pingback">
			<article>
				<cite>Weekly roundup</cite>
				<div class="comment-content"><p>Pingback: weekly news roundup for March.</p></div>
			</article>
		</li>
		<li class="comment">
			<article>
				<cite></cite>
				<div class="comment-content"><p>Leave a Reply Cancel reply Your email address will not be published.</p></div>
			</article>
		</li>
	</ol>
</div>
</body>
</html>`

func newTestExtractor() *Extractor {
	return NewExtractor(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestExtractArticle(t *testing.T) {
	t.Parallel()

	rec := newTestExtractor().Extract(articlePage, testArticleURL)

	if !rec.Success {
		t.Fatalf("Extract() success = false (%s), want true", rec.Error)
	}
	if !rec.CountsConsistent() {
		t.Error("derived counts do not match sequences")
	}

	if rec.Title != "Mill fire under investigation" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Author != "Erin Smith" {
		t.Errorf("Author = %q, want shouted byline folded to title case", rec.Author)
	}
	if rec.PublishDate != "2025-03-20T09:15:00+00:00" {
		t.Errorf("PublishDate = %q", rec.PublishDate)
	}
	if rec.PublishedAt == nil {
		t.Fatal("PublishedAt = nil, want parsed date")
	}
	if got := rec.PublishedAt.UTC().Format("2006-01-02"); got != "2025-03-20" {
		t.Errorf("PublishedAt = %s, want 2025-03-20", got)
	}

	if !strings.Contains(rec.Content, "former mill complex") {
		t.Errorf("Content missing body text: %q", rec.Content)
	}
	if strings.Contains(rec.Content, "Share this story") {
		t.Error("Content includes excluded share-widget text")
	}
}

func TestExtractImages(t *testing.T) {
	t.Parallel()

	rec := newTestExtractor().Extract(articlePage, testArticleURL)

	if len(rec.Images) != 3 {
		t.Fatalf("got %d images (%+v), want 3", len(rec.Images), rec.Images)
	}

	featured := rec.Images[0]
	if featured.Role != model.ImageRoleFeatured {
		t.Errorf("images[0].Role = %q, want featured", featured.Role)
	}
	if featured.Src != "https://www.nrinow.news/wp-content/uploads/2025/03/mill-featured.jpg" {
		t.Errorf("images[0].Src = %q", featured.Src)
	}

	scene := rec.Images[1]
	if scene.Role != model.ImageRoleContent {
		t.Errorf("images[1].Role = %q, want content", scene.Role)
	}
	if scene.Src != "https://www.nrinow.news/wp-content/uploads/2025/03/mill-scene.jpg" {
		t.Errorf("images[1].Src = %q, want absolute URL", scene.Src)
	}
	if scene.Caption != "Crews at the scene Thursday morning." {
		t.Errorf("images[1].Caption = %q", scene.Caption)
	}
	if scene.Width != "1024" || scene.Height != "683" {
		t.Errorf("images[1] dimensions = %q x %q, want raw attributes", scene.Width, scene.Height)
	}

	aerial := rec.Images[2]
	if aerial.Src != "https://cdn.nrinow.news/uploads/aerial.jpg" {
		t.Errorf("images[2].Src = %q, want data-src resolved against page scheme", aerial.Src)
	}

	for i, img := range rec.Images {
		if strings.Contains(img.Src, "printfriendly") {
			t.Errorf("images[%d] is a UI button, should have been skipped", i)
		}
	}
}

func TestExtractComments(t *testing.T) {
	t.Parallel()

	rec := newTestExtractor().Extract(articlePage, testArticleURL)

	if len(rec.Comments) != 3 {
		t.Fatalf("got %d comments (%+v), want 3 (form text dropped)", len(rec.Comments), rec.Comments)
	}

	if rec.Comments[0].Type != model.CommentTypeUser || rec.Comments[0].Author != "Local Reader" {
		t.Errorf("comments[0] = %+v, want top-level comment by Local Reader", rec.Comments[0])
	}
	if rec.Comments[1].Type != model.CommentTypeReply {
		t.Errorf("comments[1].Type = %q, want reply (nested under ul.children)", rec.Comments[1].Type)
	}
	if rec.Comments[2].Type != model.CommentTypeSystem {
		t.Errorf("comments[2].Type = %q, want system (pingback)", rec.Comments[2].Type)
	}
}

func TestExtractNoCommentSection(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<h1 class="entry-title">Quiet day</h1>
		<div class="pf-content"><p>` + strings.Repeat("Nothing much happened in town today. ", 5) + `</p></div>
	</body></html>`

	rec := newTestExtractor().Extract(page, testArticleURL)

	if !rec.Success {
		t.Fatalf("Extract() success = false (%s), want true", rec.Error)
	}
	if rec.CommentCount != 0 || len(rec.Comments) != 0 {
		t.Errorf("CommentCount = %d, want 0 for a page without a comment section", rec.CommentCount)
	}
	if !rec.CountsConsistent() {
		t.Error("derived counts do not match sequences")
	}
}

func TestExtractNoContainer(t *testing.T) {
	t.Parallel()

	page := `<html><body><div class="widget"><a href="/somewhere">elsewhere</a></div></body></html>`

	rec := newTestExtractor().Extract(page, testArticleURL)

	if rec.Success {
		t.Fatal("Extract() success = true for a page with no article container")
	}
	if rec.Error == "" {
		t.Error("failed record has no error reason")
	}
	if rec.Title != "" || rec.Content != "" || rec.Author != "" {
		t.Error("failed record carries content fields, want them empty")
	}
	if len(rec.Images) != 0 || len(rec.Comments) != 0 {
		t.Error("failed record carries sequences, want them empty")
	}
	if !rec.CountsConsistent() {
		t.Error("derived counts do not match sequences")
	}
}

func TestExtractFallbacks(t *testing.T) {
	t.Parallel()

	// No theme headline, no structured byline, visible date text only.
	page := `<html>
	<head><title>Storm closes schools - NRI NOW</title></head>
	<body>
	<div class="td-post-header">
		<div class="td-module-meta-info">Posted by Pat Jones on a stormy day</div>
	</div>
	<div class="entry-content"><p>` + strings.Repeat("Snow totals exceeded forecasts across the region. ", 4) + `</p>
		<span class="td-post-date">March 2, 2025</span>
	</div>
	</body></html>`

	rec := newTestExtractor().Extract(page, testArticleURL)

	if !rec.Success {
		t.Fatalf("Extract() success = false (%s), want true", rec.Error)
	}
	if rec.Title != "Storm closes schools" {
		t.Errorf("Title = %q, want page title with site suffix cut", rec.Title)
	}
	if rec.Author != "Pat Jones" {
		t.Errorf("Author = %q, want free-text byline match", rec.Author)
	}
}

func TestPageTitleKeepsHyphenatedHeadline(t *testing.T) {
	t.Parallel()

	// Only the last " - " segment is the site name; the headline keeps
	// its own separator.
	page := `<html>
	<head><title>Budget vote - round two - NRI NOW</title></head>
	<body>
	<div class="entry-content"><p>` + strings.Repeat("The council returned to the budget on Tuesday. ", 4) + `</p></div>
	</body></html>`

	rec := newTestExtractor().Extract(page, testArticleURL)
	if rec.Title != "Budget vote - round two" {
		t.Errorf("Title = %q, want only the trailing site name cut", rec.Title)
	}
}

func TestFieldChainOrder(t *testing.T) {
	t.Parallel()

	// Both the theme headline and the title tag are present; the chain
	// must prefer the structured one.
	page := `<html>
	<head><title>Wrong title - NRI NOW</title></head>
	<body>
	<h1 class="entry-title">Right title</h1>
	<div class="pf-content"><p>` + strings.Repeat("Body text for the chain order test. ", 4) + `</p></div>
	</body></html>`

	rec := newTestExtractor().Extract(page, testArticleURL)
	if rec.Title != "Right title" {
		t.Errorf("Title = %q, want the structured headline to win", rec.Title)
	}
}

func TestParsePublishDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "long month", input: "March 20, 2025", want: "2025-03-20", ok: true},
		{name: "short month", input: "Mar 20, 2025", want: "2025-03-20", ok: true},
		{name: "iso date", input: "2025-03-20", want: "2025-03-20", ok: true},
		{name: "us slash", input: "03/20/2025", want: "2025-03-20", ok: true},
		{name: "no comma", input: "March 20 2025", want: "2025-03-20", ok: true},
		{name: "rfc3339", input: "2025-03-20T09:15:00+00:00", want: "2025-03-20", ok: true},
		{name: "garbage", input: "a while ago", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParsePublishDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParsePublishDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if gotDate := got.Format(time.DateOnly); gotDate != tt.want {
				t.Errorf("ParsePublishDate(%q) = %s, want %s", tt.input, gotDate, tt.want)
			}
		})
	}
}

func TestNormalizeAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name", input: "Erin Smith", want: "Erin Smith"},
		{name: "by prefix", input: "By Erin Smith", want: "Erin Smith"},
		{name: "shouted", input: "ERIN SMITH", want: "Erin Smith"},
		{name: "shouted with prefix", input: "BY ERIN SMITH", want: "Erin Smith"},
		{name: "whitespace", input: "  Erin   Smith  ", want: "Erin Smith"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := normalizeAuthor(tt.input); got != tt.want {
				t.Errorf("normalizeAuthor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
