package analyzer

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/linkweave/internal/model"
)

func page(url, title string, links ...string) *model.PageRecord {
	p := &model.PageRecord{URL: url, Title: title}
	for _, l := range links {
		p.InternalLinks = append(p.InternalLinks, model.InternalLink{URL: l, AnchorText: "link"})
	}
	return p
}

func emb(url string, v ...float32) *model.PageEmbedding {
	return &model.PageEmbedding{URL: url, Embedding: v}
}

// TestAnalyzeLinks_TwoSimilarPages tests that an unlinked similar pair
// yields one suggestion per direction.
func TestAnalyzeLinks_TwoSimilarPages(t *testing.T) {
	t.Parallel()

	pages := []*model.PageRecord{
		page("https://example.com/a", "Getting Started With Go Modules Today"),
		page("https://example.com/b", "Go"),
	}
	embeddings := []*model.PageEmbedding{
		emb("https://example.com/a", 1, 0),
		emb("https://example.com/b", 0.8, 0.6),
	}

	got := New().AnalyzeLinks(pages, embeddings)

	want := &model.AnalysisResult{
		Suggestions: []model.LinkSuggestion{
			{Source: "https://example.com/a", Target: "https://example.com/b", Anchor: "Go", Score: 0.8, Reason: model.SuggestionReason},
			{Source: "https://example.com/b", Target: "https://example.com/a", Anchor: "Getting Started With Go Modules", Score: 0.8, Reason: model.SuggestionReason},
		},
		Orphans: []model.OrphanPage{
			{URL: "https://example.com/a", Title: "Getting Started With Go Modules Today", InboundLinks: 0},
			{URL: "https://example.com/b", Title: "Go", InboundLinks: 0},
		},
		Stats: model.Stats{TotalPages: 2, TotalSuggestions: 2, TotalOrphans: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

// TestAnalyzeLinks_ExistingLinks tests that existing links suppress suggestions.
func TestAnalyzeLinks_ExistingLinks(t *testing.T) {
	t.Parallel()

	t.Run("one direction linked", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageRecord{
			page("https://example.com/a", "A", "https://example.com/b"),
			page("https://example.com/b", "B"),
		}
		embeddings := []*model.PageEmbedding{emb("https://example.com/a", 1, 0), emb("https://example.com/b", 1, 0)}

		got := New().AnalyzeLinks(pages, embeddings)
		if len(got.Suggestions) != 1 {
			t.Fatalf("expected 1 suggestion, got %+v", got.Suggestions)
		}
		if s := got.Suggestions[0]; s.Source != "https://example.com/b" || s.Target != "https://example.com/a" {
			t.Errorf("unexpected suggestion %+v", s)
		}
	})

	t.Run("link with fragment matches", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageRecord{
			page("https://example.com/a", "A", "https://example.com/b#intro"),
			page("https://example.com/b", "B", "https://EXAMPLE.com/a"),
		}
		embeddings := []*model.PageEmbedding{emb("https://example.com/a", 1, 0), emb("https://example.com/b", 1, 0)}

		if got := New().AnalyzeLinks(pages, embeddings); len(got.Suggestions) != 0 {
			t.Errorf("expected no suggestions, got %+v", got.Suggestions)
		}
	})

	t.Run("dissimilar pages", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageRecord{page("https://example.com/a", "A"), page("https://example.com/b", "B")}
		embeddings := []*model.PageEmbedding{emb("https://example.com/a", 1, 0), emb("https://example.com/b", 0, 1)}

		if got := New().AnalyzeLinks(pages, embeddings); len(got.Suggestions) != 0 {
			t.Errorf("expected no suggestions, got %+v", got.Suggestions)
		}
	})
}

// TestAnalyzeLinks_Orphans tests inbound counting and orphan ranking.
func TestAnalyzeLinks_Orphans(t *testing.T) {
	t.Parallel()

	t.Run("ten pages with one hub target", func(t *testing.T) {
		t.Parallel()

		pages := make([]*model.PageRecord, 10)
		for i := range pages {
			pages[i] = page(fmt.Sprintf("https://example.com/p%d", i), fmt.Sprintf("Page %d", i))
		}
		x := pages[9].URL
		for i := range 3 {
			pages[i].InternalLinks = []model.InternalLink{{URL: x, AnchorText: "x"}}
		}

		got := New().AnalyzeLinks(pages, nil)

		if got.Stats.TotalOrphans != 9 || len(got.Orphans) != 9 {
			t.Fatalf("expected 9 orphans, got %d (%d listed)", got.Stats.TotalOrphans, len(got.Orphans))
		}
		for i, o := range got.Orphans {
			if o.URL == x {
				t.Errorf("hub page listed as orphan")
			}
			if o.InboundLinks != 0 {
				t.Errorf("orphan %d: expected 0 inbound, got %d", i, o.InboundLinks)
			}
			if want := pages[i].URL; o.URL != want {
				t.Errorf("orphan %d: expected crawl order %s, got %s", i, want, o.URL)
			}
		}
	})

	t.Run("sorted by inbound count", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageRecord{
			page("https://example.com/a", "A", "https://example.com/b"),
			page("https://example.com/b", "B"),
			page("https://example.com/c", "C", "https://example.com/a", "https://example.com/missing"),
		}
		got := New().AnalyzeLinks(pages, nil)

		want := []model.OrphanPage{
			{URL: "https://example.com/c", Title: "C", InboundLinks: 0},
			{URL: "https://example.com/a", Title: "A", InboundLinks: 1},
			{URL: "https://example.com/b", Title: "B", InboundLinks: 1},
		}
		if diff := cmp.Diff(want, got.Orphans); diff != "" {
			t.Errorf("orphans mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("self links count", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageRecord{
			page("https://example.com/a", "A", "https://example.com/a"),
			page("https://example.com/b", "B", "https://example.com/a"),
		}
		got := New().AnalyzeLinks(pages, nil)
		if got.Stats.TotalOrphans != 1 || got.Orphans[0].URL != "https://example.com/b" {
			t.Errorf("expected only b as orphan, got %+v", got.Orphans)
		}
	})

	t.Run("custom threshold", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageRecord{
			page("https://example.com/a", "A", "https://example.com/b"),
			page("https://example.com/b", "B"),
		}
		got := New(WithOrphanThreshold(1)).AnalyzeLinks(pages, nil)
		if got.Stats.TotalOrphans != 1 || got.Orphans[0].URL != "https://example.com/a" {
			t.Errorf("expected only a as orphan, got %+v", got.Orphans)
		}
	})
}

// TestAnalyzeLinks_Truncation tests that stats count suggestions before truncation.
func TestAnalyzeLinks_Truncation(t *testing.T) {
	t.Parallel()

	pages := make([]*model.PageRecord, 4)
	embeddings := make([]*model.PageEmbedding, 4)
	for i := range pages {
		url := fmt.Sprintf("https://example.com/p%d", i)
		pages[i] = page(url, fmt.Sprintf("Page %d", i))
		embeddings[i] = emb(url, 1, 0)
	}

	got := New(WithSuggestionLimit(5)).AnalyzeLinks(pages, embeddings)

	// 6 pairs, both directions
	if got.Stats.TotalSuggestions != 12 {
		t.Errorf("expected 12 total suggestions, got %d", got.Stats.TotalSuggestions)
	}
	if len(got.Suggestions) != 5 {
		t.Errorf("expected 5 returned suggestions, got %d", len(got.Suggestions))
	}
}

// TestAnalyzeLinks_Anchor tests anchor text selection.
func TestAnalyzeLinks_Anchor(t *testing.T) {
	t.Parallel()

	t.Run("unknown target uses fallback", func(t *testing.T) {
		t.Parallel()

		embeddings := []*model.PageEmbedding{emb("https://example.com/a", 1, 0), emb("https://example.com/b", 1, 0)}
		got := New().AnalyzeLinks(nil, embeddings)
		for _, s := range got.Suggestions {
			if s.Anchor != model.FallbackAnchor {
				t.Errorf("expected fallback anchor, got %q", s.Anchor)
			}
		}
	})

	t.Run("word count option", func(t *testing.T) {
		t.Parallel()

		pages := []*model.PageRecord{page("https://example.com/a", "One Two Three"), page("https://example.com/b", "Four  Five   Six")}
		embeddings := []*model.PageEmbedding{emb("https://example.com/a", 1, 0), emb("https://example.com/b", 1, 0)}
		got := New(WithAnchorWords(2)).AnalyzeLinks(pages, embeddings)
		if got.Suggestions[0].Anchor != "Four Five" {
			t.Errorf("unexpected anchor %q", got.Suggestions[0].Anchor)
		}

		if got := New(WithAnchorWords(0)).AnalyzeLinks(pages, embeddings); got.Suggestions[0].Anchor != "Four Five Six" {
			t.Errorf("expected default anchor length for non-positive option, got %q", got.Suggestions[0].Anchor)
		}
	})
}

// TestAnalyzeLinks_Idempotent tests that repeated runs agree.
func TestAnalyzeLinks_Idempotent(t *testing.T) {
	t.Parallel()

	pages := []*model.PageRecord{
		page("https://example.com/a", "Alpha", "https://example.com/c"),
		page("https://example.com/b", "Beta"),
		page("https://example.com/c", "Gamma", "https://example.com/a"),
	}
	embeddings := []*model.PageEmbedding{
		emb("https://example.com/a", 0.9, 0.1),
		emb("https://example.com/b", 0.8, 0.3),
		emb("https://example.com/c", 0.7, 0.4),
	}

	a := New()
	first := a.AnalyzeLinks(pages, embeddings)
	second := a.AnalyzeLinks(pages, embeddings)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("results differ between runs (-first +second):\n%s", diff)
	}
}
