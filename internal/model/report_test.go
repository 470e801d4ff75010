package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestAnalysisReportSuccess tests the success predicate.
func TestAnalysisReportSuccess(t *testing.T) {
	t.Parallel()

	t.Run("no result is not a success", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisReport("https://example.com/sitemap.xml", 50)
		if r.Success() {
			t.Error("expected failure without result")
		}
	})

	t.Run("result without error is a success", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisReport("https://example.com/sitemap.xml", 50)
		r.Result = &AnalysisResult{}
		if !r.Success() {
			t.Error("expected success")
		}
	})

	t.Run("error clears success", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisReport("https://example.com/sitemap.xml", 50)
		r.Result = &AnalysisResult{}
		r.SetError(errors.New("boom"))
		if r.Success() {
			t.Error("expected failure after SetError")
		}
		if r.ErrorMessage != "boom" {
			t.Errorf("unexpected error message %q", r.ErrorMessage)
		}
	})

	t.Run("site is the sitemap host", func(t *testing.T) {
		t.Parallel()

		r := NewAnalysisReport("https://Example.com/sitemap.xml", 50)
		if r.Site() != "example.com" {
			t.Errorf("unexpected site %q", r.Site())
		}
	})
}

// TestAnalysisResultOrphanURLs tests orphan URL extraction order.
func TestAnalysisResultOrphanURLs(t *testing.T) {
	t.Parallel()

	result := &AnalysisResult{
		Orphans: []OrphanPage{
			{URL: "https://example.com/a", InboundLinks: 0},
			{URL: "https://example.com/b", InboundLinks: 1},
		},
	}

	want := []string{"https://example.com/a", "https://example.com/b"}
	if diff := cmp.Diff(want, result.OrphanURLs()); diff != "" {
		t.Errorf("OrphanURLs mismatch (-want +got):\n%s", diff)
	}
}
