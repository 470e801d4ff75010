// Package embedding turns page text into vectors through a pluggable
// provider.
//
// Two providers are available: OpenAI (text-embedding-3-small, 1536
// dimensions) over its REST API, and Google Gemini (text-embedding-004,
// 768 dimensions) through the google.golang.org/genai SDK. Vectors from
// different providers are not comparable, so a run uses exactly one.
//
// Generator embeds a crawl sequentially. A page whose request fails is
// logged and dropped; the run only fails when no page could be embedded
// or the provider has no credential.
package embedding
