// Package analyzer turns crawled pages and their embeddings into link
// suggestions and a list of orphan pages.
//
// A suggestion is emitted for each direction of a semantically similar
// page pair that is not already linked. An orphan is a crawled page that
// receives fewer internal links than the orphan threshold. The analysis
// is a pure function of its input.
package analyzer
