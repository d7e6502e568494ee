package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nriscan/nriscan/internal/model"
)

func testRecord(url string) *model.ArticleRecord {
	rec := &model.ArticleRecord{
		URL:         url,
		Success:     true,
		Title:       "Council Approves Budget",
		Content:     "The town council approved the budget on Tuesday night.",
		Author:      "Erin Smith",
		PublishDate: "2026-08-12",
		Images: []model.ImageRef{
			{Src: "https://www.nrinow.news/wp-content/uploads/hall.jpg", Role: model.ImageRoleFeatured},
		},
	}
	rec.Finalize()
	return rec
}

func openTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	cdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = cdb.Close()
	})
	return cdb
}

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cdb, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cdb.Close()

	want := filepath.Join(dir, dbFileName)
	if cdb.dbPath != want {
		t.Errorf("dbPath = %q, want %q", cdb.dbPath, want)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("Open() with CreateIfNotExists=false should fail for missing database")
	}
}

func TestSaveAndGetRecord(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	rec := testRecord("https://www.nrinow.news/2026/08/12/council-budget/")
	if err := cdb.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("SaveRecord() error = %v", err)
	}

	got, err := cdb.GetRecord(ctx, rec.URL)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetRecord() = nil, want record")
	}
	if got.Title != rec.Title {
		t.Errorf("Title = %q, want %q", got.Title, rec.Title)
	}
	if got.ImageCount != 1 {
		t.Errorf("ImageCount = %d, want 1", got.ImageCount)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)

	got, err := cdb.GetRecord(context.Background(), "https://www.nrinow.news/2026/08/12/missing/")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetRecord() = %+v, want nil for unknown URL", got)
	}
}

func TestSaveRecordUpsertsByNormalizedURL(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	first := testRecord("https://www.nrinow.news/2026/08/12/council-budget/")
	if err := cdb.SaveRecord(ctx, first); err != nil {
		t.Fatalf("SaveRecord() error = %v", err)
	}

	// Same article without the trailing slash must replace, not duplicate.
	second := testRecord("https://www.nrinow.news/2026/08/12/council-budget")
	second.Title = "Council Approves Revised Budget"
	if err := cdb.SaveRecord(ctx, second); err != nil {
		t.Fatalf("SaveRecord() error = %v", err)
	}

	records, err := cdb.ListRecords(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListRecords() returned %d records, want 1", len(records))
	}
	if records[0].Title != second.Title {
		t.Errorf("Title = %q, want %q", records[0].Title, second.Title)
	}
}

func TestListRecordsLimit(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	urls := []string{
		"https://www.nrinow.news/2026/08/10/first/",
		"https://www.nrinow.news/2026/08/11/second/",
		"https://www.nrinow.news/2026/08/12/third/",
	}
	for _, u := range urls {
		if err := cdb.SaveRecord(ctx, testRecord(u)); err != nil {
			t.Fatalf("SaveRecord(%q) error = %v", u, err)
		}
	}

	records, err := cdb.ListRecords(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("ListRecords(2) returned %d records, want 2", len(records))
	}
}

func TestSeenURLs(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	u := model.NormalizeURL("https://www.nrinow.news/2026/08/12/council-budget/")
	if err := cdb.MarkSeen(ctx, u); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}
	// Marking twice must not fail.
	if err := cdb.MarkSeen(ctx, u); err != nil {
		t.Fatalf("MarkSeen() second call error = %v", err)
	}

	seen, err := cdb.SeenURLs(ctx)
	if err != nil {
		t.Fatalf("SeenURLs() error = %v", err)
	}
	if len(seen) != 1 {
		t.Errorf("SeenURLs() returned %d entries, want 1", len(seen))
	}
	if !seen[u] {
		t.Errorf("SeenURLs() missing %q", u)
	}
}

func TestRunHistory(t *testing.T) {
	t.Parallel()

	cdb := openTestDB(t)
	ctx := context.Background()

	run := &RunSummary{
		Mode:      string(model.ModeSearch),
		Keyword:   "school committee",
		Records:   5,
		Failures:  1,
		Pages:     2,
		StartedAt: time.Now().Add(-time.Minute),
	}
	if err := cdb.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	runs, err := cdb.RunHistory(ctx, 10)
	if err != nil {
		t.Fatalf("RunHistory() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RunHistory() returned %d runs, want 1", len(runs))
	}

	got := runs[0]
	if got.Keyword != run.Keyword {
		t.Errorf("Keyword = %q, want %q", got.Keyword, run.Keyword)
	}
	if got.Records != 5 || got.Failures != 1 || got.Pages != 2 {
		t.Errorf("counts = %d/%d/%d, want 5/1/2", got.Records, got.Failures, got.Pages)
	}
	if got.StartedAt.IsZero() {
		t.Error("StartedAt should be parsed from storage")
	}
	if got.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set by the database")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "sqlite default", input: "2026-08-12 15:04:05", zero: false},
		{name: "rfc3339", input: "2026-08-12T15:04:05Z", zero: false},
		{name: "garbage", input: "yesterday", zero: true},
		{name: "empty", input: "", zero: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q).IsZero() = %v, want %v", tt.input, got.IsZero(), tt.zero)
			}
		})
	}
}
