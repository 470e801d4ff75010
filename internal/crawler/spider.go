package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
)

// Spider crawls the pages listed in a site's sitemap.
// Pages are fetched sequentially with a delay between requests.
type Spider struct {
	// client performs every HTTP request.
	client *http.Client

	// maxPages limits the number of sitemap entries fetched.
	// Values outside 1..config.MaxPagesCeiling select the ceiling.
	maxPages int

	// delay is the time to wait between page fetches.
	delay time.Duration

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// headers are extra request headers, e.g. for staging auth.
	headers map[string]string

	// ignorePatterns drop matching sitemap entries before the budget
	// is applied. Patterns use glob syntax (e.g. "/tag/*", "*.pdf").
	ignorePatterns []string

	// respectRobots enables robots.txt compliance.
	respectRobots bool

	// readability enables article extraction for page content.
	readability bool

	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the maximum number of pages to crawl.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithDelay sets the delay between page fetches.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithSpiderUserAgent sets a custom User-Agent header.
func WithSpiderUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithSpiderMaxBodySize sets the maximum response body size.
func WithSpiderMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = headers
	}
}

// WithIgnorePatterns sets URL path patterns to skip.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithRobots enables or disables robots.txt compliance.
func WithRobots(enabled bool) SpiderOption {
	return func(s *Spider) {
		s.respectRobots = enabled
	}
}

// WithReadability enables or disables readability content extraction.
func WithReadability(enabled bool) SpiderOption {
	return func(s *Spider) {
		s.readability = enabled
	}
}

// WithLogger sets the logger used for skipped pages.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider with the given HTTP client.
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		maxPages:    config.MaxPagesCeiling,
		delay:       config.DefaultCrawlDelay,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CrawlSite fetches the sitemap at sitemapURL and crawls up to maxPages of
// its entries in sitemap order. A maxPages of zero or less uses the
// spider's own budget; the result never exceeds config.MaxPagesCeiling.
//
// Pages that fail to fetch or parse are logged and skipped. The returned
// error is non-nil only when the sitemap itself cannot be used or ctx
// ends; in the latter case the pages crawled so far are returned too.
func (s *Spider) CrawlSite(ctx context.Context, sitemapURL string, maxPages int) ([]*model.PageRecord, error) {
	origin, err := url.Parse(sitemapURL)
	if err != nil || origin.Host == "" {
		return nil, model.NewInputError("Invalid URL format")
	}

	locs, err := s.FetchSitemap(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	locs = s.filter(locs)
	budget := s.budget(maxPages)
	if len(locs) > budget {
		locs = locs[:budget]
	}

	s.logger.Info("crawling site",
		"sitemap", sitemapURL,
		"pages", len(locs),
	)

	var robots *robotstxt.Group
	if s.respectRobots {
		robots = s.loadRobots(ctx, origin)
	}

	pages := make([]*model.PageRecord, 0, len(locs))
	for i, loc := range locs {
		select {
		case <-ctx.Done():
			return pages, ctx.Err()
		default:
		}

		if s.respectRobots && !allowedByRobots(robots, loc) {
			s.logger.Info("skipping page disallowed by robots.txt", "url", loc)
			continue
		}

		page, err := s.fetchPage(ctx, loc, origin)
		if err != nil {
			s.logger.Warn("skipping page", "url", loc, "error", err)
		} else {
			pages = append(pages, page)
			s.logger.Debug("crawled page",
				"url", page.URL,
				"words", page.WordCount,
				"links", len(page.InternalLinks),
			)
		}

		// Politeness delay
		if s.delay > 0 && i < len(locs)-1 {
			select {
			case <-ctx.Done():
				return pages, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return pages, nil
}

// budget resolves the effective page limit for one crawl.
func (s *Spider) budget(maxPages int) int {
	if maxPages <= 0 {
		maxPages = s.maxPages
	}
	if maxPages <= 0 || maxPages > config.MaxPagesCeiling {
		return config.MaxPagesCeiling
	}
	return maxPages
}

// filter drops ignored and duplicate sitemap entries, keeping order.
func (s *Spider) filter(locs []string) []string {
	result := make([]string, 0, len(locs))
	seen := make(map[string]bool, len(locs))
	for _, loc := range locs {
		key := model.CanonicalURL(loc)
		if seen[key] || isIgnored(s.ignorePatterns, loc) {
			continue
		}
		seen[key] = true
		result = append(result, loc)
	}
	return result
}

// fetchPage fetches a single page and extracts its record.
func (s *Spider) fetchPage(ctx context.Context, pageURL string, origin *url.URL) (*model.PageRecord, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &model.FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	s.applyHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &model.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "html") {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	// Read body with limit, decoded to UTF-8
	body, err := charset.NewReader(io.LimitReader(resp.Body, s.maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}

	return NewParser(u, origin, s.readability).Parse(body)
}

func (s *Spider) applyHeaders(req *http.Request) {
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
}
