package model

// SuggestionReason is the reason attached to every similarity-based suggestion.
const SuggestionReason = "Semantically similar content, no existing link"

// FallbackAnchor is used when the target page of a suggestion is unknown.
const FallbackAnchor = "related content"

// LinkSuggestion recommends adding a link from Source to Target.
type LinkSuggestion struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Anchor string  `json:"anchor"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// OrphanPage is a page with too few internal inbound links.
type OrphanPage struct {
	URL   string `json:"url"`
	Title string `json:"title"`

	// InboundLinks counts internal links from any crawled page,
	// the page itself included, that resolve to URL.
	InboundLinks int `json:"inbound_links"`
}

// Stats summarizes an analysis.
type Stats struct {
	TotalPages int `json:"total_pages"`

	// TotalSuggestions is counted before the suggestion list is truncated.
	TotalSuggestions int `json:"total_suggestions"`

	TotalOrphans int `json:"total_orphans"`
}

// AnalysisResult aggregates ranked suggestions, ranked orphans and stats.
type AnalysisResult struct {
	Suggestions []LinkSuggestion `json:"suggestions"`
	Orphans     []OrphanPage     `json:"orphans"`
	Stats       Stats            `json:"stats"`
}

// OrphanURLs returns the orphan URLs in ranked order.
func (r *AnalysisResult) OrphanURLs() []string {
	urls := make([]string, len(r.Orphans))
	for i, o := range r.Orphans {
		urls[i] = o.URL
	}
	return urls
}
