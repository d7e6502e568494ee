package main

import (
	"testing"
)

// TestNewPostsCmd tests the posts command creation.
func TestNewPostsCmd(t *testing.T) {
	t.Parallel()

	cmd := NewPostsCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "posts" {
			t.Errorf("expected use 'posts', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"max-posts", "after", "before", "categories", "tags",
			"json", "csv", "markdown", "output",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})
}

// TestBuildPostQuery tests API query construction from flags.
func TestBuildPostQuery(t *testing.T) {
	t.Parallel()

	t.Run("date range and filters", func(t *testing.T) {
		t.Parallel()

		cmd := NewPostsCmd()
		args := []string{
			"--after", "2026-01-01",
			"--before", "2026-08-01",
			"--categories", "12,34",
			"--tags", "7",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		q, err := buildPostQuery(cmd)
		if err != nil {
			t.Fatalf("buildPostQuery() error = %v", err)
		}

		if q.After != "2026-01-01T00:00:00" {
			t.Errorf("After = %q", q.After)
		}
		if q.Before != "2026-08-01T00:00:00" {
			t.Errorf("Before = %q", q.Before)
		}
		if len(q.Categories) != 2 || q.Categories[0] != 12 || q.Categories[1] != 34 {
			t.Errorf("Categories = %v", q.Categories)
		}
		if len(q.Tags) != 1 || q.Tags[0] != 7 {
			t.Errorf("Tags = %v", q.Tags)
		}
	})

	t.Run("empty flags leave query empty", func(t *testing.T) {
		t.Parallel()

		cmd := NewPostsCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		q, err := buildPostQuery(cmd)
		if err != nil {
			t.Fatalf("buildPostQuery() error = %v", err)
		}
		if q.After != "" || q.Before != "" || len(q.Categories) != 0 || len(q.Tags) != 0 {
			t.Errorf("expected empty query, got %+v", q)
		}
	})

	t.Run("bad date errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewPostsCmd()
		if err := cmd.ParseFlags([]string{"--after", "last tuesday"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		if _, err := buildPostQuery(cmd); err == nil {
			t.Error("expected error for unparseable date")
		}
	})
}
