package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/linkweave/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)

	if report.Success() {
		w.writeSummary(md, report)
		w.writeSuggestions(md, report.Result.Suggestions)
		w.writeOrphans(md, report.Result.Orphans)
	}

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("LinkWeave Report")
	md.PlainText("")

	provider := "-"
	if report.Provider != nil {
		provider = fmt.Sprintf("%s (`%s`, %d dims)", report.Provider.Name, report.Provider.Model, report.Provider.Dimensions)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Sitemap", "`" + report.SitemapURL + "`"},
			{"Analysis Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Page Budget", strconv.Itoa(report.MaxPages)},
			{"Embedding Provider", provider},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")

	if !report.Success() && report.ErrorMessage != "" {
		md.Cautionf("Analysis failed: %s", report.ErrorMessage)
		md.PlainText("")
	}
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.AnalysisReport) string {
	if report.Cancelled {
		return "⚠️ Cancelled"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + escapeCell(report.ErrorMessage)
	}
	return "✅ Complete"
}

// writeSummary writes the stats table, the link health chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AnalysisReport) {
	stats := report.Result.Stats

	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages Analyzed", strconv.Itoa(stats.TotalPages)},
			{"Link Suggestions", strconv.Itoa(stats.TotalSuggestions)},
			{"Orphan Pages", strconv.Itoa(stats.TotalOrphans)},
		},
	})
	md.PlainText("")

	if stats.TotalPages > 0 {
		w.writePieChart(md, report.Result)
	}

	switch {
	case stats.TotalPages > 0 && stats.TotalOrphans*2 > stats.TotalPages:
		md.Warningf(
			"%d of %d pages are orphans. Most of the site is poorly linked internally.",
			stats.TotalOrphans, stats.TotalPages,
		)
	case stats.TotalOrphans > 0:
		md.Importantf("%d orphan page(s) need more internal links.", stats.TotalOrphans)
	case stats.TotalSuggestions > 0:
		md.Note("No orphan pages. The suggestions below can still strengthen topical clusters.")
	default:
		md.Tip("No orphan pages and no missing links between similar pages.")
	}
	md.PlainText("")

	if stats.TotalSuggestions > len(report.Result.Suggestions) {
		md.PlainTextf("Showing the top %d of %d suggestions.", len(report.Result.Suggestions), stats.TotalSuggestions)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of inbound link coverage.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.AnalysisResult) {
	var none, weak int
	for _, o := range result.Orphans {
		if o.InboundLinks == 0 {
			none++
		} else {
			weak++
		}
	}
	linked := result.Stats.TotalPages - result.Stats.TotalOrphans

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Inbound Link Coverage"),
		piechart.WithShowData(true),
	)
	if none > 0 {
		chart.LabelAndIntValue("No inbound links", uint64(none))
	}
	if weak > 0 {
		chart.LabelAndIntValue("Weakly linked", uint64(weak))
	}
	if linked > 0 {
		chart.LabelAndIntValue("Well linked", uint64(linked))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSuggestions writes the link suggestion table.
func (w *MarkdownWriter) writeSuggestions(md *markdown.Markdown, suggestions []model.LinkSuggestion) {
	md.H2("Link Suggestions")
	md.PlainText("")

	if len(suggestions) == 0 {
		md.PlainText("No link suggestions.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(suggestions))
	for i, s := range suggestions {
		rows[i] = []string{
			escapeCell(truncateString(s.Source, 60)),
			escapeCell(truncateString(s.Target, 60)),
			escapeCell(s.Anchor),
			strconv.FormatFloat(s.Score, 'f', 2, 64),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source", "Target", "Suggested Anchor", "Score"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeOrphans writes the orphan page table.
func (w *MarkdownWriter) writeOrphans(md *markdown.Markdown, orphans []model.OrphanPage) {
	md.H2("Orphan Pages")
	md.PlainText("")

	if len(orphans) == 0 {
		md.PlainText("No orphan pages.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(orphans))
	for i, o := range orphans {
		rows[i] = []string{
			escapeCell(truncateString(o.URL, 60)),
			escapeCell(truncateString(o.Title, 50)),
			strconv.Itoa(o.InboundLinks),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Inbound Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [LinkWeave](https://github.com/nao1215/linkweave)*")
}

// escapeCell keeps pipes in titles from breaking table columns.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
