package model

import (
	"net/url"
	"strings"
)

// InternalLink is a hyperlink from a page to another page on the same host.
type InternalLink struct {
	// URL is the canonical destination URL.
	URL string `json:"url"`

	// AnchorText is the visible link text, capped by the crawler.
	AnchorText string `json:"anchor_text"`
}

// PageRecord represents a crawled page with all extracted information.
// A PageRecord is created once per successfully fetched page and is not
// modified after the crawl finishes.
type PageRecord struct {
	// URL is the canonical URL of the page.
	URL string `json:"url"`

	// Title is the document title, the first h1, or the URL itself.
	Title string `json:"title"`

	// Headings contains the text of h1-h3 elements in document order.
	Headings []string `json:"headings,omitempty"`

	// Content is the cleaned visible text of the main content container.
	Content string `json:"content"`

	// WordCount is the number of whitespace-separated words in Content.
	WordCount int `json:"word_count"`

	// InternalLinks holds the same-host links found on the page,
	// deduplicated by destination.
	InternalLinks []InternalLink `json:"internal_links,omitempty"`
}

// LinksTo reports whether the page already links to target. Both sides
// are compared in canonical form.
func (p *PageRecord) LinksTo(target string) bool {
	target = CanonicalURL(target)
	for _, link := range p.InternalLinks {
		if CanonicalURL(link.URL) == target {
			return true
		}
	}
	return false
}

// EmbeddingInput returns the text submitted to the embedding provider.
func (p *PageRecord) EmbeddingInput() string {
	return p.Title + "\n\n" + p.Content
}

// CanonicalURL normalizes a URL so that page URLs and link destinations
// can be compared directly. The fragment and query are dropped, scheme and
// host are lowercased, and an empty path becomes "/".
// Unparseable input is returned unchanged.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}

	return u.String()
}

// HostOf returns the lowercased host of a URL, or the input when it
// has no parseable host.
func HostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.ToLower(u.Host)
}
