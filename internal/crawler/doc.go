// Package crawler fetches a site's sitemap and extracts page content and
// internal links for link analysis.
//
// Crawling is deliberately sequential. Pages are fetched one after another
// with a politeness delay in between, and a failing page is logged and
// skipped rather than aborting the crawl. The number of pages is bounded
// by config.MaxPagesCeiling regardless of what the caller asks for.
package crawler
