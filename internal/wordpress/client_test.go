package wordpress

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// postsJSON renders a page of minimal post objects.
func postsJSON(ids ...int) string {
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, fmt.Sprintf(`{
			"id": %d,
			"date": "2025-03-%02dT09:15:00",
			"slug": "story-%d",
			"link": "https://www.nrinow.news/2025/03/%02d/story-%d/",
			"title": {"rendered": "Story %d &amp; more"},
			"content": {"rendered": "<p>Body of <strong>story %d</strong>.</p>"},
			"_embedded": {"wp:featuredmedia": [{"source_url": "https://www.nrinow.news/wp-content/uploads/featured-%d.jpg"}]}
		}`, id, id, id, id, id, id, id, id))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func newTestClient(srvURL string) *Client {
	return NewClient(srvURL, WithRateLimit(rate.NewLimiter(rate.Inf, 1)))
}

func TestClientPosts(t *testing.T) {
	t.Parallel()

	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/posts" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, postsJSON(1, 2))
	}))
	defer srv.Close()

	posts, err := newTestClient(srv.URL).Posts(context.Background(), 1, PostQuery{
		PerPage: 25,
		After:   "2025-03-01T00:00:00",
	})
	if err != nil {
		t.Fatalf("Posts() returned error: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("Posts() returned %d posts, want 2", len(posts))
	}
	if posts[0].ID != 1 || posts[0].Slug != "story-1" {
		t.Errorf("posts[0] = %+v", posts[0])
	}
	if got := posts[0].FeaturedImage(); got != "https://www.nrinow.news/wp-content/uploads/featured-1.jpg" {
		t.Errorf("FeaturedImage() = %q", got)
	}

	for _, want := range []string{"per_page=25", "page=1", "status=publish", "_embed=true", "after=2025-03-01T00%3A00%3A00"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("request query %q missing %q", gotQuery, want)
		}
	}
}

func TestClientAllPostsPaginates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, postsJSON(1, 2))
		case "2":
			fmt.Fprint(w, postsJSON(3))
		default:
			fmt.Fprint(w, "[]")
		}
	}))
	defer srv.Close()

	posts, err := newTestClient(srv.URL).AllPosts(context.Background(), PostQuery{}, 0)
	if err != nil {
		t.Fatalf("AllPosts() returned error: %v", err)
	}

	if len(posts) != 3 {
		t.Fatalf("AllPosts() returned %d posts, want 3", len(posts))
	}
	for i, want := range []int{1, 2, 3} {
		if posts[i].ID != want {
			t.Errorf("posts[%d].ID = %d, want %d (page order)", i, posts[i].ID, want)
		}
	}
}

func TestClientAllPostsHonorsCap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, postsJSON(1, 2, 3, 4))
	}))
	defer srv.Close()

	posts, err := newTestClient(srv.URL).AllPosts(context.Background(), PostQuery{}, 3)
	if err != nil {
		t.Fatalf("AllPosts() returned error: %v", err)
	}
	if len(posts) != 3 {
		t.Errorf("AllPosts() returned %d posts, want the cap of 3", len(posts))
	}
}

func TestClientPastEndPageIsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, postsJSON(1))
			return
		}
		// WordPress answers 400 with rest_post_invalid_page_number
		// for pages past the end.
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	posts, err := newTestClient(srv.URL).AllPosts(context.Background(), PostQuery{}, 0)
	if err != nil {
		t.Fatalf("AllPosts() returned error: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("AllPosts() returned %d posts, want 1", len(posts))
	}
}

func TestClientAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Posts(context.Background(), 1, PostQuery{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Posts() error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("APIError.Status = %d, want 503", apiErr.Status)
	}
}

func TestConverterRecords(t *testing.T) {
	t.Parallel()

	posts := []Post{
		{
			ID:      1,
			Date:    "2025-03-20T09:15:00",
			Link:    "https://www.nrinow.news/2025/03/20/story-1/",
			Title:   RenderedField{Rendered: "Fire &amp; rescue update"},
			Content: RenderedField{Rendered: "<p>Crews responded <strong>quickly</strong>.</p>"},
			Embedded: &Embedded{FeaturedMedia: []Media{
				{SourceURL: "https://www.nrinow.news/wp-content/uploads/f.jpg"},
			}},
		},
		{
			ID:      2,
			Date:    "not a date",
			Link:    "https://www.nrinow.news/2025/03/21/story-2/",
			Title:   RenderedField{Rendered: "Second story"},
			Content: RenderedField{Rendered: "<p>Short.</p>"},
		},
	}

	records, err := NewConverter().Records(context.Background(), posts)
	if err != nil {
		t.Fatalf("Records() returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Records() returned %d records, want 2", len(records))
	}

	first := records[0]
	if first.Title != "Fire & rescue update" {
		t.Errorf("Title = %q, want entities unescaped", first.Title)
	}
	if !strings.Contains(first.Content, "**quickly**") {
		t.Errorf("Content = %q, want markdown conversion", first.Content)
	}
	if first.PublishedAt == nil {
		t.Error("PublishedAt = nil, want parsed API date")
	} else if got := first.PublishedAt.Format(time.DateOnly); got != "2025-03-20" {
		t.Errorf("PublishedAt = %s, want 2025-03-20", got)
	}
	if len(first.Images) != 1 || first.Images[0].Role != "featured" {
		t.Errorf("Images = %+v, want one featured image", first.Images)
	}
	if !first.CountsConsistent() {
		t.Error("derived counts do not match sequences")
	}

	second := records[1]
	if second.PublishedAt != nil {
		t.Error("PublishedAt parsed from an unparseable date")
	}
	if second.PublishDate != "not a date" {
		t.Errorf("PublishDate = %q, want the raw string kept", second.PublishDate)
	}
}
