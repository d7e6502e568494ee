package model

import (
	"testing"
	"time"
)

func TestCrawlReportCounts(t *testing.T) {
	t.Parallel()

	r := NewCrawlReport("https://www.nrinow.news", ModeListing, "")
	if r.Succeeded() != 0 || r.Failed() != 0 {
		t.Errorf("empty report counts = %d/%d, want 0/0", r.Succeeded(), r.Failed())
	}

	ok := &ArticleRecord{URL: "https://www.nrinow.news/2026/08/12/a/", Success: true}
	ok.Finalize()
	r.Records = append(r.Records, ok)
	r.Records = append(r.Records, NewFailedRecord("https://www.nrinow.news/2026/08/12/b/", "navigation failed"))
	r.Records = append(r.Records, NewFailedRecord("https://www.nrinow.news/2026/08/12/c/", "no recognizable article container"))

	if got := r.Succeeded(); got != 1 {
		t.Errorf("Succeeded() = %d, want 1", got)
	}
	if got := r.Failed(); got != 2 {
		t.Errorf("Failed() = %d, want 2", got)
	}
}

func TestCrawlReportDuration(t *testing.T) {
	t.Parallel()

	r := NewCrawlReport("https://www.nrinow.news", ModeSearch, "fire district")
	if r.Duration() != 0 {
		t.Errorf("unfinished report Duration() = %v, want 0", r.Duration())
	}

	r.StartedAt = time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	r.FinishedAt = r.StartedAt.Add(42 * time.Second)
	if got := r.Duration(); got != 42*time.Second {
		t.Errorf("Duration() = %v, want 42s", got)
	}
}
