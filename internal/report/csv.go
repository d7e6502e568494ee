package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/nriscan/nriscan/internal/model"
)

// csvHeader is the column order for CSV output. One row per article.
var csvHeader = []string{
	"url",
	"success",
	"title",
	"author",
	"publish_date",
	"content_length",
	"image_count",
	"comment_count",
	"keyword",
	"rank",
	"error",
}

// CSVWriter outputs one row per article record.
// This format is designed for spreadsheets and ad-hoc analysis.
//
// Design decision: We use standard encoding/csv rather than a third-party
// CSV library because:
// 1. The output is flat rows, nothing a struct mapper would improve
// 2. encoding/csv handles quoting and escaping correctly
// 3. One less dependency for a boring format
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report's records in CSV format with a header row.
// Run-level fields (site, mode, timing) are not representable in flat
// rows and are omitted; use the JSON writer when they matter.
func (w *CSVWriter) Write(report *model.CrawlReport) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	for _, rec := range report.Records {
		if err := cw.Write(recordRow(rec)); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}

// recordRow flattens one record into CSV columns, matching csvHeader.
func recordRow(rec *model.ArticleRecord) []string {
	keyword := ""
	rank := ""
	if rec.Search != nil {
		keyword = rec.Search.Keyword
		rank = strconv.Itoa(rec.Search.Rank)
	}

	return []string{
		rec.URL,
		strconv.FormatBool(rec.Success),
		rec.Title,
		rec.Author,
		rec.PublishDate,
		strconv.Itoa(rec.ContentLength),
		strconv.Itoa(rec.ImageCount),
		strconv.Itoa(rec.CommentCount),
		keyword,
		rank,
		rec.Error,
	}
}
