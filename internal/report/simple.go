package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkweave/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// maxRows limits the rows printed per table. Zero prints all rows.
	maxRows int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxRows limits the number of suggestions and orphans printed.
func WithMaxRows(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxRows = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	if report.Success() {
		w.writeSuggestions(&sb, report.Result)
		w.writeOrphans(&sb, report.Result)
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         LINKWEAVE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Sitemap:        %s\n", report.SitemapURL)
	fmt.Fprintf(sb, "Analysis Date:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if report.Provider != nil {
		fmt.Fprintf(sb, "Provider:       %s (%s, %d dims)\n", report.Provider.Name, report.Provider.Model, report.Provider.Dimensions)
	}

	switch {
	case report.Cancelled:
		sb.WriteString("Status:         CANCELLED\n")
	case report.ErrorMessage != "":
		fmt.Fprintf(sb, "Status:         ERROR - %s\n", report.ErrorMessage)
	default:
		sb.WriteString("Status:         Complete\n")
	}

	if report.Result != nil {
		stats := report.Result.Stats
		fmt.Fprintf(sb, "Pages:          %d\n", stats.TotalPages)
		fmt.Fprintf(sb, "Suggestions:    %d\n", stats.TotalSuggestions)
		fmt.Fprintf(sb, "Orphans:        %d\n", stats.TotalOrphans)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSuggestions(sb *strings.Builder, result *model.AnalysisResult) {
	sb.WriteString("LINK SUGGESTIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	if len(result.Suggestions) == 0 {
		sb.WriteString("  No link suggestions.\n\n")
		return
	}

	shown := w.limit(len(result.Suggestions))
	for _, s := range result.Suggestions[:shown] {
		fmt.Fprintf(sb, "  [%.2f] %s\n", s.Score, s.Source)
		fmt.Fprintf(sb, "         -> %s\n", s.Target)
		fmt.Fprintf(sb, "         anchor: %q\n", s.Anchor)
	}
	if hidden := result.Stats.TotalSuggestions - shown; hidden > 0 {
		fmt.Fprintf(sb, "  ... and %d more\n", hidden)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeOrphans(sb *strings.Builder, result *model.AnalysisResult) {
	sb.WriteString("ORPHAN PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	if len(result.Orphans) == 0 {
		sb.WriteString("  No orphan pages.\n\n")
		return
	}

	shown := w.limit(len(result.Orphans))
	for _, o := range result.Orphans[:shown] {
		fmt.Fprintf(sb, "  (%d inbound) %s\n", o.InboundLinks, o.URL)
		fmt.Fprintf(sb, "               %s\n", truncateString(o.Title, 55))
	}
	if hidden := len(result.Orphans) - shown; hidden > 0 {
		fmt.Fprintf(sb, "  ... and %d more\n", hidden)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) limit(n int) int {
	if w.maxRows > 0 && n > w.maxRows {
		return w.maxRows
	}
	return n
}
