package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/database"
	"github.com/nao1215/linkweave/internal/model"
	"github.com/nao1215/linkweave/internal/report"
)

// NewHistoryCmd creates the history command.
// It reads reports archived by "analyze --save".
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site]",
		Short: "Show archived analysis reports",
		Long: `History lists reports archived with 'linkweave analyze --save'.

With a site, it lists that site's reports, newest first. With --id, it
prints one archived report, or its crawled pages with --pages. With
--latest, it prints the newest report of a site. With --compare, it shows
how the orphan pages of a site changed between its two latest reports.

Examples:
  # List every site in the archive
  linkweave history --list-sites

  # List the reports of one site
  linkweave history blog.example.com

  # Print report 3 as JSON
  linkweave history --id 3 --json

  # List the pages crawled for report 3
  linkweave history --id 3 --pages

  # Print the newest report of a site
  linkweave history --latest blog.example.com

  # Compare the latest two reports of a site
  linkweave history --compare blog.example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-sites", "L", false,
		"List all sites in the archive")
	cmd.Flags().Int64P("id", "i", 0,
		"Print the archived report with this ID")
	cmd.Flags().Bool("pages", false,
		"With --id, list the pages archived with the report")
	cmd.Flags().Bool("latest", false,
		"Print the latest report of the site")
	cmd.Flags().Bool("compare", false,
		"Compare the latest two reports of the site")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the report archive")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	pages, err := cmd.Flags().GetBool("pages")
	if err != nil {
		return err
	}
	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	compare, err := cmd.Flags().GetBool("compare")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// Validate before opening the database.
	var site string
	if len(args) > 0 {
		site = model.HostOf(args[0])
	}
	if compare && site == "" {
		return errors.New("a site is required for --compare (use --list-sites to see available sites)")
	}
	if latest && site == "" {
		return errors.New("a site is required for --latest (use --list-sites to see available sites)")
	}
	if pages && id <= 0 {
		return errors.New("--pages requires --id")
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case listSites:
		return listArchivedSites(ctx, db, out, jsonOutput)
	case id > 0 && pages:
		return listArchivedPages(ctx, db, out, id, jsonOutput)
	case id > 0:
		return printArchivedReport(ctx, db, out, id, jsonOutput)
	case latest:
		return printLatestReport(ctx, db, out, site, jsonOutput)
	case compare:
		return compareLatest(ctx, db, out, site, jsonOutput)
	default:
		return listHistory(ctx, db, out, site, jsonOutput)
	}
}

func listArchivedSites(ctx context.Context, db *database.ReportDB, out io.Writer, jsonOutput bool) error {
	sites, err := db.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if jsonOutput {
		if sites == nil {
			sites = []string{}
		}
		return writeJSON(out, sites)
	}

	if len(sites) == 0 {
		fmt.Fprintln(out, "No archived reports found.")
		fmt.Fprintln(out, "\nUse 'linkweave analyze --save <sitemap-url>' to archive a report.")
		return nil
	}

	fmt.Fprintf(out, "Analyzed sites (%d):\n\n", len(sites))
	for _, site := range sites {
		fmt.Fprintf(out, "  • %s\n", site)
	}
	fmt.Fprintln(out, "\nUse 'linkweave history <site>' to see the reports of a site.")
	return nil
}

func listHistory(ctx context.Context, db *database.ReportDB, out io.Writer, site string, jsonOutput bool) error {
	history, err := db.History(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if jsonOutput {
		if history == nil {
			history = []database.ReportMetadata{}
		}
		return writeJSON(out, history)
	}

	if len(history) == 0 {
		if site == "" {
			fmt.Fprintln(out, "No archived reports found.")
		} else {
			fmt.Fprintf(out, "No archived reports found for %s\n", site)
		}
		return nil
	}

	title := "All archived reports"
	if site != "" {
		title = "Reports for " + site
	}
	fmt.Fprintf(out, "%s (%d):\n\n", title, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-24s  %s\n", "ID", "Date", "Site", "Pages / Suggestions / Orphans")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-24s  %d / %d / %d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.Site,
			meta.Summary.Pages,
			meta.Summary.Suggestions,
			meta.Summary.Orphans,
		)
	}

	fmt.Fprintln(out, "\nUse 'linkweave history --id <id>' to print a report.")
	return nil
}

func printArchivedReport(ctx context.Context, db *database.ReportDB, out io.Writer, id int64, jsonOutput bool) error {
	r, err := db.GetReportByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("report #%d not found", id)
	}

	return writeArchivedReport(out, r, jsonOutput)
}

func printLatestReport(ctx context.Context, db *database.ReportDB, out io.Writer, site string, jsonOutput bool) error {
	r, err := db.GetLatestReport(ctx, site)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no archived reports found for %s", site)
	}
	return writeArchivedReport(out, r, jsonOutput)
}

func writeArchivedReport(out io.Writer, r *model.AnalysisReport, jsonOutput bool) error {
	format := report.FormatText
	if jsonOutput {
		format = report.FormatJSON
	}
	_, err := report.New(format, out).Write(r)
	return err
}

func listArchivedPages(ctx context.Context, db *database.ReportDB, out io.Writer, id int64, jsonOutput bool) error {
	r, err := db.GetReportByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("report #%d not found", id)
	}

	pages, err := db.ListPages(ctx, id)
	if err != nil {
		return err
	}

	if jsonOutput {
		if pages == nil {
			pages = []database.PageRow{}
		}
		return writeJSON(out, pages)
	}

	if len(pages) == 0 {
		fmt.Fprintf(out, "No pages archived for report #%d
", id)
		return nil
	}

	fmt.Fprintf(out, "Pages of report #%d for %s (%d):

", id, r.Site(), len(pages))
	fmt.Fprintf(out, "  %-7s  %-7s  %-40s  %s
", "Words", "Links", "Title", "URL")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))
	for _, p := range pages {
		fmt.Fprintf(out, "  %-7d  %-7d  %-40s  %s
",
			p.WordCount,
			p.InternalLinks,
			p.Title,
			p.URL,
		)
	}
	return nil
}

// OrphanComparison describes how orphan pages changed between two reports.
type OrphanComparison struct {
	Site string `json:"site"`

	PreviousDate time.Time `json:"previous_date"`
	CurrentDate  time.Time `json:"current_date"`

	PreviousOrphans int `json:"previous_orphans"`
	CurrentOrphans  int `json:"current_orphans"`

	// NewOrphans are orphans in the current report only.
	NewOrphans []string `json:"new_orphans"`

	// ResolvedOrphans are orphans in the previous report only.
	ResolvedOrphans []string `json:"resolved_orphans"`

	PreviousSuggestions int `json:"previous_suggestions"`
	CurrentSuggestions  int `json:"current_suggestions"`
}

func compareLatest(ctx context.Context, db *database.ReportDB, out io.Writer, site string, jsonOutput bool) error {
	history, err := db.History(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if len(history) < 2 {
		return fmt.Errorf("at least two archived reports are needed to compare %s (found %d)", site, len(history))
	}

	current, err := db.GetReportByID(ctx, history[0].ID)
	if err != nil {
		return err
	}
	previous, err := db.GetReportByID(ctx, history[1].ID)
	if err != nil {
		return err
	}
	if current == nil || previous == nil || current.Result == nil || previous.Result == nil {
		return errors.New("archived reports are incomplete")
	}

	result := compareReports(previous, current)
	if jsonOutput {
		return writeJSON(out, result)
	}
	outputComparisonText(out, result)
	return nil
}

// compareReports diffs the orphan sets of two finished reports.
func compareReports(previous, current *model.AnalysisReport) *OrphanComparison {
	result := &OrphanComparison{
		Site:                current.Site(),
		PreviousDate:        previous.StartedAt,
		CurrentDate:         current.StartedAt,
		PreviousOrphans:     previous.Result.Stats.TotalOrphans,
		CurrentOrphans:      current.Result.Stats.TotalOrphans,
		NewOrphans:          []string{},
		ResolvedOrphans:     []string{},
		PreviousSuggestions: previous.Result.Stats.TotalSuggestions,
		CurrentSuggestions:  current.Result.Stats.TotalSuggestions,
	}

	before := make(map[string]bool, len(previous.Result.Orphans))
	for _, o := range previous.Result.Orphans {
		before[o.URL] = true
	}
	after := make(map[string]bool, len(current.Result.Orphans))
	for _, o := range current.Result.Orphans {
		after[o.URL] = true
		if !before[o.URL] {
			result.NewOrphans = append(result.NewOrphans, o.URL)
		}
	}
	for _, o := range previous.Result.Orphans {
		if !after[o.URL] {
			result.ResolvedOrphans = append(result.ResolvedOrphans, o.URL)
		}
	}

	return result
}

func outputComparisonText(out io.Writer, result *OrphanComparison) {
	fmt.Fprintf(out, "Report Comparison: %s\n", result.Site)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious report: %s\n", result.PreviousDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current report:  %s\n", result.CurrentDate.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(out, "\n  %-12s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 48))
	fmt.Fprintf(out, "  %-12s  %-10d  %-10d  %-10s\n", "Orphans",
		result.PreviousOrphans, result.CurrentOrphans,
		formatDelta(result.CurrentOrphans-result.PreviousOrphans))
	fmt.Fprintf(out, "  %-12s  %-10d  %-10d  %-10s\n", "Suggestions",
		result.PreviousSuggestions, result.CurrentSuggestions,
		formatDelta(result.CurrentSuggestions-result.PreviousSuggestions))

	if len(result.NewOrphans) > 0 {
		fmt.Fprintf(out, "\nNew Orphans (%d):\n", len(result.NewOrphans))
		for _, u := range result.NewOrphans {
			fmt.Fprintf(out, "  [+] %s\n", u)
		}
	}
	if len(result.ResolvedOrphans) > 0 {
		fmt.Fprintf(out, "\nResolved Orphans (%d):\n", len(result.ResolvedOrphans))
		for _, u := range result.ResolvedOrphans {
			fmt.Fprintf(out, "  [-] %s\n", u)
		}
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
