// Package main provides the entry point for the LinkWeave CLI.
//
// LinkWeave crawls a website through its sitemap, embeds every page with an
// embedding provider, and reports internal links worth adding and pages
// that receive too few internal links.
//
// Usage:
//
//	linkweave analyze https://example.com/sitemap.xml
//	linkweave history example.com
//
// See --help for all available options.
package main

func main() {
	Execute()
}
