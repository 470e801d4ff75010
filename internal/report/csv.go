package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/linkweave/internal/model"
)

// CSVWriter exports suggestions and orphans as CSV. The suggestion table
// comes first, then a blank line, an "Orphan Pages" marker and the
// orphan table.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report as CSV. A failed report is an error.
func (w *CSVWriter) Write(report *model.AnalysisReport) (int, error) {
	if !report.Success() {
		return 0, fmt.Errorf("cannot export failed analysis: %s", report.ErrorMessage)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	records := [][]string{{"Source URL", "Target URL", "Suggested Anchor", "Similarity Score", "Reason"}}
	for _, s := range report.Result.Suggestions {
		records = append(records, []string{
			s.Source,
			s.Target,
			s.Anchor,
			strconv.FormatFloat(s.Score, 'f', 2, 64),
			s.Reason,
		})
	}
	records = append(records,
		[]string{""},
		[]string{"Orphan Pages"},
		[]string{"URL", "Title", "Inbound Links"},
	)
	for _, o := range report.Result.Orphans {
		records = append(records, []string{o.URL, o.Title, strconv.Itoa(o.InboundLinks)})
	}

	if err := cw.WriteAll(records); err != nil {
		return 0, fmt.Errorf("failed to encode CSV: %w", err)
	}
	return w.output.Write(buf.Bytes())
}
