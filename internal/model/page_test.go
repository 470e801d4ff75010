package model

import (
	"testing"
)

// TestCanonicalURL tests URL normalization for link matching.
func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "adds root path", input: "https://example.com", want: "https://example.com/"},
		{name: "drops fragment", input: "https://example.com/a#top", want: "https://example.com/a"},
		{name: "drops query", input: "https://example.com/a?utm=1", want: "https://example.com/a"},
		{name: "lowercases scheme and host", input: "HTTPS://Example.COM/Path", want: "https://example.com/Path"},
		{name: "trims spaces", input: "  https://example.com/b  ", want: "https://example.com/b"},
		{name: "keeps trailing slash", input: "https://example.com/b/", want: "https://example.com/b/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CanonicalURL(tt.input); got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestHostOf tests host extraction.
func TestHostOf(t *testing.T) {
	t.Parallel()

	if got := HostOf("https://Blog.Example.com/sitemap.xml"); got != "blog.example.com" {
		t.Errorf("expected blog.example.com, got %q", got)
	}
	if got := HostOf("not a url"); got != "not a url" {
		t.Errorf("expected input back, got %q", got)
	}
}

// TestPageRecordLinksTo tests existing link lookup.
func TestPageRecordLinksTo(t *testing.T) {
	t.Parallel()

	page := &PageRecord{
		URL: "https://example.com/a",
		InternalLinks: []InternalLink{
			{URL: "https://example.com/b", AnchorText: "B"},
		},
	}

	if !page.LinksTo("https://example.com/b") {
		t.Error("expected link to /b")
	}
	if page.LinksTo("https://example.com/c") {
		t.Error("expected no link to /c")
	}
	if !page.LinksTo("https://EXAMPLE.com/b?utm=1#top") {
		t.Error("expected canonical match for /b")
	}
}

// TestPageRecordEmbeddingInput tests the provider input format.
func TestPageRecordEmbeddingInput(t *testing.T) {
	t.Parallel()

	page := &PageRecord{Title: "Title", Content: "Body text"}
	if got := page.EmbeddingInput(); got != "Title\n\nBody text" {
		t.Errorf("unexpected embedding input %q", got)
	}
}
