package model

// PageEmbedding is the embedding vector generated for one page.
// Vectors within a single run must share the same dimensionality.
type PageEmbedding struct {
	// URL is the canonical URL of the embedded page.
	URL string `json:"url"`

	// Title is copied from the page for convenience.
	Title string `json:"title"`

	// Embedding is the vector returned by the provider.
	Embedding []float32 `json:"embedding"`
}

// Dimensions returns the length of the embedding vector.
func (e *PageEmbedding) Dimensions() int {
	return len(e.Embedding)
}

// SimilarityPair is an unordered pair of pages whose embeddings met the
// similarity floor. Score is in [0,1] and rounded to two decimals.
type SimilarityPair struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Score  float64 `json:"score"`
}

// ProviderInfo describes an embedding provider for display purposes.
// It has no effect on behavior.
type ProviderInfo struct {
	// Name is the human readable provider name.
	Name string `json:"name"`

	// Model is the embedding model identifier.
	Model string `json:"model"`

	// Dimensions is the length of the vectors the model returns.
	Dimensions int `json:"dimensions"`

	// CostPer1K is the approximate price per 1000 tokens.
	CostPer1K string `json:"cost_per_1k_tokens"`
}
