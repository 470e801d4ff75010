package embedding

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/nao1215/linkweave/internal/config"
	"github.com/nao1215/linkweave/internal/model"
)

// Provider names accepted by New.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Provider generates an embedding vector for a piece of text.
type Provider interface {
	// Embed returns the vector for text. Input longer than
	// config.MaxEmbeddingInput characters is truncated first.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Info describes the provider and model for display.
	Info() model.ProviderInfo
}

// Config selects and configures a provider.
type Config struct {
	// Provider is "openai" or "gemini". Empty selects gemini.
	Provider string

	// Model overrides the provider's default model.
	Model string

	// APIKey is the provider credential.
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// HTTPClient is used for API calls. Defaults to a client with
	// config.DefaultRequestTimeout.
	HTTPClient *http.Client
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: config.DefaultRequestTimeout}
}

// knownDimensions maps model names to their vector length.
var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"text-embedding-004":     768,
	"gemini-embedding-001":   3072,
}

// truncateInput cuts text to config.MaxEmbeddingInput characters.
func truncateInput(text string) string {
	if utf8.RuneCountInString(text) <= config.MaxEmbeddingInput {
		return text
	}
	return string([]rune(text)[:config.MaxEmbeddingInput])
}
