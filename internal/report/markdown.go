package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nriscan/nriscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeArticles(md, report)
	w.writeFailures(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Crawl Report")
	md.PlainText("")

	rows := [][]string{
		{"Site", report.Site},
		{"Mode", string(report.Mode)},
	}
	if report.Keyword != "" {
		rows = append(rows, []string{"Keyword", report.Keyword})
	}
	rows = append(rows,
		[]string{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Duration", report.Duration().Round(timeRounding).String()},
		[]string{"Pages Searched", strconv.Itoa(report.PagesSearched)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Run", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the outcome summary with an alert and a pie chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"✅ Extracted", strconv.Itoa(report.Succeeded())},
			{"❌ Failed", strconv.Itoa(report.Failed())},
			{"**Total**", "**" + strconv.Itoa(len(report.Records)) + "**"},
		},
	})
	md.PlainText("")

	if len(report.Records) > 0 {
		w.writePieChart(md, report)
	}

	switch {
	case report.Error != "":
		md.Warningf("Run ended early: %s. Results below are partial.", report.Error)
	case report.Failed() > 0:
		md.Note(fmt.Sprintf("%d article(s) could not be extracted. See Failures below.", report.Failed()))
	case len(report.Records) == 0:
		md.Note("No articles were discovered.")
	default:
		md.Tip(fmt.Sprintf("All %d article(s) extracted successfully.", len(report.Records)))
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart for the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.CrawlReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Extraction Outcomes"),
		piechart.WithShowData(true),
	)

	if n := report.Succeeded(); n > 0 {
		chart.LabelAndIntValue("Extracted", uint64(n))
	}
	if n := report.Failed(); n > 0 {
		chart.LabelAndIntValue("Failed", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeArticles writes the table of successfully extracted articles.
func (w *MarkdownWriter) writeArticles(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Articles")
	md.PlainText("")

	if report.Succeeded() == 0 {
		md.PlainText("No articles extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, report.Succeeded())
	for _, rec := range report.Records {
		if !rec.Success {
			continue
		}
		title := rec.Title
		if title == "" {
			title = "(untitled)"
		}
		rows = append(rows, []string{
			"[" + title + "](" + rec.URL + ")",
			rec.Author,
			rec.PublishDate,
			strconv.Itoa(rec.ContentLength),
			strconv.Itoa(rec.ImageCount),
			strconv.Itoa(rec.CommentCount),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Author", "Published", "Chars", "Images", "Comments"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the failed records with their reasons.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.CrawlReport) {
	if report.Failed() == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")

	rows := make([][]string, 0, report.Failed())
	for _, rec := range report.Records {
		if rec.Success {
			continue
		}
		rows = append(rows, []string{rec.URL, rec.Error})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Reason"},
		Rows:   rows,
	})
	md.PlainText("")
}

// timeRounding keeps report durations readable.
const timeRounding = 100 * time.Millisecond
