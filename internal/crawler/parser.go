package crawler

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
)

// boilerplateSelector matches elements removed before any text is read.
const boilerplateSelector = "script, style, nav, header, footer, aside, noscript"

// contentSelectors are tried in order; the first with visible text wins.
var contentSelectors = []string{"main", "article", ".content", ".post", "body"}

// skippedSchemes are href prefixes that never point at a page.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Parser extracts a PageRecord from an HTML document.
type Parser struct {
	// pageURL is the URL the document was fetched from.
	pageURL *url.URL

	// origin is the site origin. Only links to its host are kept and
	// every recorded URL is rebased onto its scheme and host.
	origin *url.URL

	// readability enables article extraction before the selector chain.
	readability bool
}

// NewParser creates a Parser for a page of the site rooted at origin.
func NewParser(pageURL, origin *url.URL, useReadability bool) *Parser {
	return &Parser{
		pageURL:     pageURL,
		origin:      origin,
		readability: useReadability,
	}
}

// Parse reads the document and extracts title, headings, content and
// internal links. r must yield UTF-8.
func (p *Parser) Parse(r io.Reader) (*model.PageRecord, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(boilerplateSelector).Remove()

	pageURL := rebase(p.pageURL, p.origin)

	content := ""
	if p.readability {
		content = p.readableText(body)
	}
	if content == "" {
		content = p.containerText(doc)
	}
	content = truncateRunes(content, config.MaxContentLength)

	return &model.PageRecord{
		URL:           pageURL,
		Title:         p.title(doc, pageURL),
		Headings:      headings(doc),
		Content:       content,
		WordCount:     len(strings.Fields(content)),
		InternalLinks: p.internalLinks(doc),
	}, nil
}

// title returns <title>, then the first h1, then the page URL.
func (p *Parser) title(doc *goquery.Document, pageURL string) string {
	if t := cleanText(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := cleanText(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return pageURL
}

func headings(doc *goquery.Document) []string {
	result := make([]string, 0)
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			result = append(result, text)
		}
	})
	return result
}

func (p *Parser) containerText(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		if text := cleanText(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// readableText runs go-readability over the raw document. Any failure
// returns "" so the caller falls back to the selector chain.
func (p *Parser) readableText(body []byte) string {
	article, err := readability.FromReader(bytes.NewReader(body), p.pageURL)
	if err != nil || article.Content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return ""
	}
	doc.Find(boilerplateSelector).Remove()
	return cleanText(doc.Text())
}

// internalLinks collects links to the origin host, deduplicated by
// destination. The first anchor text seen for a destination is kept.
func (p *Parser) internalLinks(doc *goquery.Document) []model.InternalLink {
	links := make([]model.InternalLink, 0)
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || hasSkippedScheme(href) {
			return
		}

		anchor := cleanText(s.Text())
		if anchor == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := p.pageURL.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !strings.EqualFold(resolved.Hostname(), p.origin.Hostname()) {
			return
		}

		dest := rebase(resolved, p.origin)
		if seen[dest] {
			return
		}
		seen[dest] = true

		links = append(links, model.InternalLink{
			URL:        dest,
			AnchorText: truncateRunes(anchor, config.MaxAnchorTextLength),
		})
	})

	return links
}

func hasSkippedScheme(href string) bool {
	lower := strings.ToLower(href)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// rebase moves u onto the origin's scheme and host and canonicalizes it,
// so that http/https and port variants of the same path compare equal.
func rebase(u, origin *url.URL) string {
	c := *u
	if strings.EqualFold(c.Hostname(), origin.Hostname()) {
		c.Scheme = origin.Scheme
		c.Host = origin.Host
	}
	return model.CanonicalURL(c.String())
}

// cleanText normalizes to NFC and collapses whitespace runs to one space.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
