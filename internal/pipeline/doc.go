// Package pipeline runs a link analysis as a sequence of steps.
//
// A run is crawl, then embed, then analyze. Each step is a Step that
// receives the shared AnalysisReport and adds its own results to it, so
// steps can be tested in isolation and reordered or replaced.
//
// Runner is the entry point for a single sitemap. BatchProcessor runs
// several sitemaps concurrently using errgroup; each individual run stays
// sequential.
package pipeline
