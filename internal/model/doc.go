// Package model defines the core data structures used throughout LinkWeave.
//
// This package contains the following main types:
//   - PageRecord: A crawled page with extracted content and internal links
//   - PageEmbedding: The embedding vector generated for a page
//   - SimilarityPair: Two pages whose embeddings are similar
//   - AnalysisResult: Ranked link suggestions, orphan pages and statistics
//   - AnalysisReport: The state of a single pipeline run
//
// Models live in their own package so that crawler, embedding, analyzer,
// pipeline and report can share them without import cycles. All types are
// JSON serializable for report output and the report archive.
package model
