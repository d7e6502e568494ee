package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nriscan/nriscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables per-article detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-article details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeArticles(&sb, report)
	w.writeFooter(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Site:           %s\n", report.Site)
	fmt.Fprintf(sb, "Mode:           %s\n", report.Mode)
	if report.Keyword != "" {
		fmt.Fprintf(sb, "Keyword:        %s\n", report.Keyword)
	}
	fmt.Fprintf(sb, "Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:       %s\n", report.Duration().Round(timeRounding))
	fmt.Fprintf(sb, "Pages Searched: %d\n", report.PagesSearched)

	if report.Error != "" {
		fmt.Fprintf(sb, "Status:         PARTIAL - %s\n", report.Error)
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeArticles writes one line per record, with detail when verbose.
func (w *SimpleWriter) writeArticles(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ARTICLES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Records) == 0 {
		sb.WriteString("No articles discovered.\n\n")
		return
	}

	for i, rec := range report.Records {
		marker := "OK  "
		if !rec.Success {
			marker = "FAIL"
		}

		title := rec.Title
		if title == "" {
			title = rec.URL
		}
		fmt.Fprintf(sb, "[%s] %3d. %s\n", marker, i+1, title)

		if !rec.Success {
			fmt.Fprintf(sb, "           %s\n", rec.Error)
			continue
		}

		if w.verbose {
			fmt.Fprintf(sb, "           %s\n", rec.URL)
			if rec.Author != "" {
				fmt.Fprintf(sb, "           by %s", rec.Author)
				if rec.PublishDate != "" {
					fmt.Fprintf(sb, ", %s", rec.PublishDate)
				}
				sb.WriteString("\n")
			}
			fmt.Fprintf(sb, "           %d chars, %d images, %d comments\n",
				rec.ContentLength, rec.ImageCount, rec.CommentCount)
		}
	}

	sb.WriteString("\n")
}

// writeFooter writes the outcome totals.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Extracted: %d    Failed: %d    Total: %d\n",
		report.Succeeded(), report.Failed(), len(report.Records))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
