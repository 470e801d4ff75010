package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/linkweave/internal/database"
	"github.com/nao1215/linkweave/internal/model"
)

func newArchivedReport(startedAt time.Time, orphans ...string) *model.AnalysisReport {
	r := model.NewAnalysisReport("https://blog.example.com/sitemap.xml", 50)
	r.StartedAt = startedAt
	r.Result = &model.AnalysisResult{
		Suggestions: []model.LinkSuggestion{},
		Orphans:     make([]model.OrphanPage, 0, len(orphans)),
		Stats:       model.Stats{TotalPages: 4, TotalSuggestions: len(orphans), TotalOrphans: len(orphans)},
	}
	for _, u := range orphans {
		r.Result.Orphans = append(r.Result.Orphans, model.OrphanPage{URL: u, Title: u})
	}
	return r
}

// seedArchive creates an archive with two reports for blog.example.com.
func seedArchive(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	ctx := context.Background()
	if _, err := db.SaveReport(ctx, newArchivedReport(base, "/a", "/b")); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	current := newArchivedReport(base.Add(24*time.Hour), "/b", "/c", "/d")
	current.Pages = []*model.PageRecord{
		{
			URL:       "https://blog.example.com/go-intro",
			Title:     "Go Intro",
			WordCount: 120,
			InternalLinks: []model.InternalLink{
				{URL: "https://blog.example.com/", AnchorText: "Home"},
				{URL: "https://blog.example.com/rust-intro", AnchorText: "Rust"},
			},
		},
		{URL: "https://blog.example.com/", Title: "Home", WordCount: 40},
	}
	if _, err := db.SaveReport(ctx, current); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return dir
}

func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewHistoryCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	// Subtests share one archive file and run in order.
	dir := seedArchive(t)

	t.Run("lists sites", func(t *testing.T) {
		out, err := runHistory(t, "--db-dir", dir, "--list-sites")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "blog.example.com") {
			t.Errorf("expected site in output, got %q", out)
		}
	})

	t.Run("lists site history as JSON", func(t *testing.T) {
		out, err := runHistory(t, "--db-dir", dir, "--json", "https://blog.example.com/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var history []database.ReportMetadata
		if err := json.Unmarshal([]byte(out), &history); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(history) != 2 || history[0].Summary.Orphans != 3 {
			t.Errorf("unexpected history %+v", history)
		}
	})

	t.Run("prints report by id", func(t *testing.T) {
		out, err := runHistory(t, "--db-dir", dir, "--id", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "LINKWEAVE REPORT") {
			t.Errorf("expected text report, got %q", out)
		}
	})

	t.Run("lists archived pages", func(t *testing.T) {
		out, err := runHistory(t, "--db-dir", dir, "--id", "2", "--pages", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var pages []database.PageRow
		if err := json.Unmarshal([]byte(out), &pages); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		want := []database.PageRow{
			{URL: "https://blog.example.com/", Title: "Home", WordCount: 40},
			{URL: "https://blog.example.com/go-intro", Title: "Go Intro", WordCount: 120, InternalLinks: 2},
		}
		if diff := cmp.Diff(want, pages); diff != "" {
			t.Errorf("pages mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("lists archived pages as text", func(t *testing.T) {
		out, err := runHistory(t, "--db-dir", dir, "--id", "2", "--pages")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Pages of report #2 for blog.example.com (2)") {
			t.Errorf("expected page header, got %q", out)
		}
		if !strings.Contains(out, "https://blog.example.com/go-intro") {
			t.Errorf("expected page URL, got %q", out)
		}
	})

	t.Run("pages requires id", func(t *testing.T) {
		if _, err := runHistory(t, "--db-dir", dir, "--pages"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("prints latest report", func(t *testing.T) {
		out, err := runHistory(t, "--db-dir", dir, "--latest", "--json", "blog.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got struct {
			Orphans []string `json:"orphans"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if diff := cmp.Diff([]string{"/b", "/c", "/d"}, got.Orphans); diff != "" {
			t.Errorf("orphans mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("latest for unknown site", func(t *testing.T) {
		if _, err := runHistory(t, "--db-dir", dir, "--latest", "unknown.example.net"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := runHistory(t, "--db-dir", dir, "--id", "99"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("compares latest reports", func(t *testing.T) {
		out, err := runHistory(t, "--db-dir", dir, "--compare", "--json", "blog.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got OrphanComparison
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if diff := cmp.Diff([]string{"/c", "/d"}, got.NewOrphans); diff != "" {
			t.Errorf("new orphans mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"/a"}, got.ResolvedOrphans); diff != "" {
			t.Errorf("resolved orphans mismatch (-want +got):\n%s", diff)
		}
		if got.PreviousOrphans != 2 || got.CurrentOrphans != 3 {
			t.Errorf("unexpected counts %+v", got)
		}
	})

	t.Run("compare requires site", func(t *testing.T) {
		if _, err := runHistory(t, "--db-dir", dir, "--compare"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestHistoryCmdMissingArchive(t *testing.T) {
	t.Parallel()

	_, err := runHistory(t, "--db-dir", t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "database not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{3, "+3"},
		{0, "0"},
		{-2, "-2"},
	}
	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}
