package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nao1215/linkweave/internal/model"
)

const (
	geminiName         = "Google Gemini"
	geminiDefaultModel = "text-embedding-004"
	geminiCost         = "$0.000025 (free tier available)"
	geminiTaskType     = "SEMANTIC_SIMILARITY"
)

// GeminiProvider calls the Gemini API through the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider. It fails with a
// *model.ProviderAuthError when cfg.APIKey is empty; the SDK's own
// environment lookup is never used.
func NewGeminiProvider(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, &model.ProviderAuthError{Provider: geminiName}
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient(),
	}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	p := &GeminiProvider{client: client, model: geminiDefaultModel}
	if cfg.Model != "" {
		p.model = cfg.Model
	}
	return p, nil
}

// Embed returns the embedding vector for the given text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.client == nil {
		return nil, &model.ProviderAuthError{Provider: geminiName}
	}

	contents := []*genai.Content{genai.NewContentFromText(truncateInput(text), genai.RoleUser)}
	resp, err := p.client.Models.EmbedContent(ctx, p.model, contents, &genai.EmbedContentConfig{
		TaskType: geminiTaskType,
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &model.ProviderAPIError{
				Provider:   geminiName,
				StatusCode: apiErr.Code,
				Message:    apiErr.Message,
			}
		}
		return nil, fmt.Errorf("gemini embed request: %w", err)
	}

	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, &model.ProviderAPIError{Provider: geminiName, Message: "empty embedding in response"}
	}

	return resp.Embeddings[0].Values, nil
}

// Info describes the provider.
func (p *GeminiProvider) Info() model.ProviderInfo {
	return model.ProviderInfo{
		Name:       geminiName,
		Model:      p.model,
		Dimensions: knownDimensions[p.model],
		CostPer1K:  geminiCost,
	}
}
