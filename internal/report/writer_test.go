package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/linkweave/internal/model"
)

// createTestReport creates a completed report with sample data for testing.
func createTestReport() *model.AnalysisReport {
	report := model.NewAnalysisReport("https://blog.example.com/sitemap.xml", 50)
	report.Provider = &model.ProviderInfo{
		Name:       "OpenAI",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		CostPer1K:  "$0.00002",
	}
	report.Result = &model.AnalysisResult{
		Suggestions: []model.LinkSuggestion{
			{
				Source: "https://blog.example.com/go-advanced",
				Target: "https://blog.example.com/go-intro",
				Anchor: "Go Intro",
				Score:  0.91,
				Reason: model.SuggestionReason,
			},
		},
		Orphans: []model.OrphanPage{
			{URL: "https://blog.example.com/rust-intro", Title: "Rust | Intro", InboundLinks: 0},
			{URL: "https://blog.example.com/go-intro", Title: "Go Intro", InboundLinks: 1},
		},
		Stats: model.Stats{TotalPages: 3, TotalSuggestions: 4, TotalOrphans: 2},
	}
	return report
}

func createFailedReport() *model.AnalysisReport {
	report := model.NewAnalysisReport("https://blog.example.com/sitemap.xml", 50)
	report.SetError(errors.New("no pages found"))
	return report
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"LINKWEAVE REPORT",
			"https://blog.example.com/sitemap.xml",
			"OpenAI (text-embedding-3-small, 1536 dims)",
			"LINK SUGGESTIONS",
			"[0.91] https://blog.example.com/go-advanced",
			`anchor: "Go Intro"`,
			"... and 3 more",
			"ORPHAN PAGES",
			"(0 inbound) https://blog.example.com/rust-intro",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("limits rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithMaxRows(1)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "(1 inbound)") {
			t.Error("expected second orphan to be hidden")
		}
		if !strings.Contains(output, "... and 1 more") {
			t.Error("expected hidden orphan count")
		}
	})

	t.Run("writes error status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createFailedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "ERROR - no pages found") {
			t.Error("expected error status")
		}
		if strings.Contains(output, "LINK SUGGESTIONS") {
			t.Error("failed report should not list suggestions")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes response object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got Response
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		want := Response{
			Success: true,
			Provider: &ProviderResponse{
				Name:            "OpenAI",
				Model:           "text-embedding-3-small",
				Dimensions:      1536,
				CostPer1kTokens: "$0.00002",
			},
			Suggestions: createTestReport().Result.Suggestions,
			Orphans: []string{
				"https://blog.example.com/rust-intro",
				"https://blog.example.com/go-intro",
			},
			Stats: StatsResponse{TotalPages: 3, TotalSuggestions: 4, TotalOrphans: 2},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("provider object uses the provider key", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var raw struct {
			Provider map[string]any `json:"provider"`
		}
		if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got := raw.Provider["provider"]; got != "OpenAI" {
			t.Errorf("provider.provider = %v, want OpenAI", got)
		}
		if _, ok := raw.Provider["name"]; ok {
			t.Error("provider object must not carry a name key")
		}
	})

	t.Run("uses camel case stats keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, key := range []string{`"totalPages":3`, `"totalSuggestions":4`, `"costPer1kTokens"`} {
			if !strings.Contains(buf.String(), key) {
				t.Errorf("expected %s in output", key)
			}
		}
	})

	t.Run("empty result keeps arrays", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.Provider = nil
		report.Result = &model.AnalysisResult{}

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, `"suggestions":[]`) || !strings.Contains(output, `"orphans":[]`) {
			t.Errorf("expected empty arrays, got %s", output)
		}
		if strings.Contains(output, `"provider"`) {
			t.Error("provider should be omitted")
		}
	})

	t.Run("writes error response", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createFailedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got ErrorResponse
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if diff := cmp.Diff(ErrorResponse{Success: false, Error: "no pages found"}, got); diff != "" {
			t.Errorf("error response mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"success\": true") {
			t.Error("expected indented output")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# LinkWeave Report",
			"## Summary",
			"pie",
			"Inbound Link Coverage",
			"## Link Suggestions",
			"Go Intro",
			"0.91",
			"## Orphan Pages",
			"Rust",
			"Showing the top 1 of 4 suggestions.",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("writes caution on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createFailedReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!CAUTION]") {
			t.Error("expected caution alert")
		}
		if strings.Contains(output, "## Link Suggestions") {
			t.Error("failed report should not list suggestions")
		}
	})
}

func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes suggestions then orphans", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewCSVWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		r := csv.NewReader(&buf)
		r.FieldsPerRecord = -1
		got, err := r.ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}

		want := [][]string{
			{"Source URL", "Target URL", "Suggested Anchor", "Similarity Score", "Reason"},
			{
				"https://blog.example.com/go-advanced",
				"https://blog.example.com/go-intro",
				"Go Intro",
				"0.91",
				model.SuggestionReason,
			},
			{"Orphan Pages"},
			{"URL", "Title", "Inbound Links"},
			{"https://blog.example.com/rust-intro", "Rust | Intro", "0"},
			{"https://blog.example.com/go-intro", "Go Intro", "1"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("CSV mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects failed report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewCSVWriter(&buf).Write(createFailedReport()); err == nil {
			t.Error("expected error")
		}
		if buf.Len() != 0 {
			t.Error("expected no output")
		}
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "*report.SimpleWriter"},
		{FormatJSON, "*report.JSONWriter"},
		{FormatMarkdown, "*report.MarkdownWriter"},
		{FormatCSV, "*report.CSVWriter"},
		{Format("yaml"), "*report.SimpleWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			w := New(tt.format, &bytes.Buffer{})
			if got := typeName(w); got != tt.want {
				t.Errorf("New(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func typeName(w Writer) string {
	switch w.(type) {
	case *SimpleWriter:
		return "*report.SimpleWriter"
	case *JSONWriter:
		return "*report.JSONWriter"
	case *MarkdownWriter:
		return "*report.MarkdownWriter"
	case *CSVWriter:
		return "*report.CSVWriter"
	default:
		return "unknown"
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(createTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("bytes written = %d, want %d", n, text.Len()+js.Len())
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 8, "hello..."},
		{"tiny limit", "hello", 2, "he"},
		{"multibyte", "日本語のタイトル", 5, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
