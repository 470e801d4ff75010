package analyzer

import (
	"sort"
	"strings"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
	"github.com/nao1215/linkweave/internal/similarity"
)

// Analyzer finds missing internal links and orphan pages.
type Analyzer struct {
	// similarityThreshold is the minimum cosine similarity of a suggested pair.
	similarityThreshold float64

	// orphanThreshold flags pages with fewer inbound links than this.
	orphanThreshold int

	// suggestionLimit caps the returned suggestions. Zero or less keeps all.
	suggestionLimit int

	// anchorWords is the number of title words used as anchor text.
	anchorWords int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSimilarityThreshold sets the minimum similarity for a suggestion.
func WithSimilarityThreshold(threshold float64) Option {
	return func(a *Analyzer) {
		a.similarityThreshold = threshold
	}
}

// WithOrphanThreshold sets the inbound link count below which a page is an orphan.
func WithOrphanThreshold(threshold int) Option {
	return func(a *Analyzer) {
		a.orphanThreshold = threshold
	}
}

// WithSuggestionLimit sets the maximum number of suggestions returned.
func WithSuggestionLimit(limit int) Option {
	return func(a *Analyzer) {
		a.suggestionLimit = limit
	}
}

// WithAnchorWords sets how many title words make up a suggested anchor.
// Non-positive values are ignored.
func WithAnchorWords(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.anchorWords = n
		}
	}
}

// New creates an Analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		similarityThreshold: config.DefaultSimilarityThreshold,
		orphanThreshold:     config.DefaultOrphanThreshold,
		suggestionLimit:     config.DefaultSuggestionLimit,
		anchorWords:         config.DefaultAnchorWords,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// linkGraph is the existing internal link structure of a crawl.
type linkGraph struct {
	// inbound counts links to each crawled page, self links included.
	inbound map[string]int

	// byURL indexes pages by canonical URL.
	byURL map[string]*model.PageRecord
}

func buildLinkGraph(pages []*model.PageRecord) *linkGraph {
	g := &linkGraph{
		inbound: make(map[string]int, len(pages)),
		byURL:   make(map[string]*model.PageRecord, len(pages)),
	}

	for _, page := range pages {
		key := model.CanonicalURL(page.URL)
		if _, ok := g.byURL[key]; ok {
			continue
		}
		g.byURL[key] = page
		g.inbound[key] = 0
	}

	for _, page := range g.byURL {
		seen := make(map[string]bool, len(page.InternalLinks))
		for _, link := range page.InternalLinks {
			dest := model.CanonicalURL(link.URL)
			if seen[dest] {
				continue
			}
			seen[dest] = true
			if _, crawled := g.inbound[dest]; crawled {
				g.inbound[dest]++
			}
		}
	}

	return g
}

func (g *linkGraph) linked(source, target string) bool {
	page, ok := g.byURL[model.CanonicalURL(source)]
	return ok && page.LinksTo(target)
}

// AnalyzeLinks computes suggestions, orphans and stats for a crawl.
// Embeddings must belong to pages in the same crawl.
func (a *Analyzer) AnalyzeLinks(pages []*model.PageRecord, embeddings []*model.PageEmbedding) *model.AnalysisResult {
	graph := buildLinkGraph(pages)

	suggestions := make([]model.LinkSuggestion, 0)
	for _, pair := range similarity.FindSimilarPages(embeddings, a.similarityThreshold) {
		if !graph.linked(pair.Source, pair.Target) {
			suggestions = append(suggestions, a.suggest(graph, pair.Source, pair.Target, pair.Score))
		}
		if !graph.linked(pair.Target, pair.Source) {
			suggestions = append(suggestions, a.suggest(graph, pair.Target, pair.Source, pair.Score))
		}
	}

	orphans := make([]model.OrphanPage, 0)
	seen := make(map[string]bool, len(pages))
	for _, page := range pages {
		key := model.CanonicalURL(page.URL)
		if seen[key] {
			continue
		}
		seen[key] = true

		if count := graph.inbound[key]; count < a.orphanThreshold {
			orphans = append(orphans, model.OrphanPage{
				URL:          page.URL,
				Title:        page.Title,
				InboundLinks: count,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	sort.SliceStable(orphans, func(i, j int) bool {
		return orphans[i].InboundLinks < orphans[j].InboundLinks
	})

	total := len(suggestions)
	if a.suggestionLimit > 0 && len(suggestions) > a.suggestionLimit {
		suggestions = suggestions[:a.suggestionLimit]
	}

	return &model.AnalysisResult{
		Suggestions: suggestions,
		Orphans:     orphans,
		Stats: model.Stats{
			TotalPages:       len(pages),
			TotalSuggestions: total,
			TotalOrphans:     len(orphans),
		},
	}
}

func (a *Analyzer) suggest(graph *linkGraph, source, target string, score float64) model.LinkSuggestion {
	return model.LinkSuggestion{
		Source: source,
		Target: target,
		Anchor: a.anchorFor(graph.byURL[model.CanonicalURL(target)]),
		Score:  score,
		Reason: model.SuggestionReason,
	}
}

// anchorFor returns the first words of the page title, or the fallback
// anchor when the page is unknown or untitled.
func (a *Analyzer) anchorFor(page *model.PageRecord) string {
	if page == nil {
		return model.FallbackAnchor
	}
	words := strings.Fields(page.Title)
	if len(words) > a.anchorWords {
		words = words[:a.anchorWords]
	}
	if len(words) == 0 {
		return model.FallbackAnchor
	}
	return strings.Join(words, " ")
}
